package users

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

// Address is the shipping address slice of the user document this core needs
// for the order placement precondition. Account management itself lives in
// the excluded user layer.
type Address struct {
	Line1    string `bson:"line1"`
	City     string `bson:"city"`
	Postcode string `bson:"postcode"`
	Country  string `bson:"country"`
}

// Complete reports whether the address satisfies the placement precondition:
// at minimum a city and postal code.
func (a *Address) Complete() bool {
	return a != nil && a.City != "" && a.Postcode != ""
}

type Lookup interface {
	GetAddress(ctx context.Context, userID string) (*Address, error)
}
