package user

import "time"

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedIDs struct{ id string }

func (g fixedIDs) NewID() string { return g.id }

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func sampleInput() CreateInput {
	return CreateInput{
		ClerkID:   "user_2abc",
		Email:     "ada@example.com",
		Username:  "ada",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Photo:     "https://img.clerk.com/ada.png",
	}
}
