package domain

import "time"

// User is a confirmed account. TOTPSecret never leaves the service.
type User struct {
	UserID        string    `json:"userId" bson:"_id"`
	Username      string    `json:"username" bson:"username"`
	Created       time.Time `json:"created" bson:"created"`
	TOTPSecret    string    `json:"-" bson:"totp_secret"`
	FavoriteSpots []string  `json:"favoriteSpots" bson:"favoriteSpots"`
	TravelPlans   []string  `json:"travelPlans" bson:"travelPlans"`
}

// Document fields of User that are replaced wholesale by list updates.
const (
	UserFieldFavoriteSpots = "favoriteSpots"
	UserFieldTravelPlans   = "travelPlans"
)

// TempUser is a registration waiting for its first valid one-time code.
type TempUser struct {
	ID         string    `bson:"_id"`
	Username   string    `bson:"username"`
	TOTPSecret string    `bson:"totp_secret"`
	CreatedAt  time.Time `bson:"createdAt"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
}

type OTPRequest struct {
	Username string `json:"username" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
}

type RefreshTokenRequest struct {
	ExpiredToken string `json:"expiredToken" validate:"required"`
}

type TravelPlansRequest struct {
	TravelPlans []string `json:"travelPlans"`
}

type FavoriteSpotsRequest struct {
	FavoriteSpots []string `json:"favoriteSpots"`
}
