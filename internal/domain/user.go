package domain

import "time"

// Region is a geographic reference (division, district or upazila) as supplied by the client.
type Region struct {
	ID     string `json:"id" dynamodbav:"id"`
	Name   string `json:"name" dynamodbav:"name"`
	BnName string `json:"bnName" dynamodbav:"bn_name"`
}

// User is the durable credential record. Email is unique; Verified only ever goes false -> true.
type User struct {
	UserID       string    `json:"userId" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	FirstName    string    `json:"firstName" dynamodbav:"first_name"`
	LastName     string    `json:"lastName" dynamodbav:"last_name"`
	Division     *Region   `json:"division,omitempty" dynamodbav:"division,omitempty"`
	District     *Region   `json:"district,omitempty" dynamodbav:"district,omitempty"`
	Upazila      *Region   `json:"upazila,omitempty" dynamodbav:"upazila,omitempty"`
	Address      string    `json:"address,omitempty" dynamodbav:"address,omitempty"`
	Verified     bool      `json:"isVerified" dynamodbav:"verified"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Profile is the public projection of a User. It never carries the password hash.
type Profile struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Division   string `json:"division,omitempty"`
	District   string `json:"district,omitempty"`
	Upazila    string `json:"upazila,omitempty"`
	Address    string `json:"address,omitempty"`
	IsVerified bool   `json:"isVerified"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		UserID:     u.UserID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Division:   regionName(u.Division),
		District:   regionName(u.District),
		Upazila:    regionName(u.Upazila),
		Address:    u.Address,
		IsVerified: u.Verified,
	}
}

func regionName(r *Region) string {
	if r == nil {
		return ""
	}
	return r.Name
}
