package utils

import (
	"time"
)

var istLocation = loadISTLocation()

func loadISTLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// tzdata may be missing in slim images
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// GetISTTimeLocation returns the Asia/Kolkata location.
func GetISTTimeLocation() *time.Location {
	return istLocation
}

// TimeNowIST returns the current time in Asia/Kolkata.
func TimeNowIST() time.Time {
	return time.Now().In(istLocation)
}
