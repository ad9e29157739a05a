package env

import "os"

var (
	// environment holds the current environment value retrieved from the ENVIRONMENT variable.
	environment = os.Getenv("ENVIRONMENT")
)

// IsDevelopment returns true if the current environment is set to "development".
func IsDevelopment() bool {
	return environment == "development"
}

// IsProduction returns true if the current environment is set to "production".
func IsProduction() bool {
	return environment == "production"
}

// IsRemote returns true if the application is running in either "production" or "development" mode.
// Remote environments get JSON logs; everything else gets the console encoder.
func IsRemote() bool {
	return IsProduction() || IsDevelopment()
}

func GetEnvironment() string {
	return environment
}
