package config

import (
	"log"
	"os"
	"strconv"
)

// Env reads a string variable with a fallback.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt reads an integer variable with a fallback.
func EnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// EnvFloat reads a float variable with a fallback.
func EnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: %s=%q is not a number, using %g", key, v, fallback)
		return fallback
	}
	return f
}

// Port returns the HTTP listen port.
func Port() string {
	return Env("PORT", "8080")
}

// RecurrenceHorizonDays controls how far ahead series are materialized.
func RecurrenceHorizonDays() int {
	return EnvInt("RECURRENCE_HORIZON_DAYS", 42)
}

// CancellationFeePercent is the default fee when no explicit amount is given.
func CancellationFeePercent() float64 {
	return EnvFloat("CANCELLATION_FEE_PERCENT", 20)
}

// PaymentGatewayURL is the base URL of the payment provider. Empty means
// run against the in-memory fake.
func PaymentGatewayURL() string {
	return os.Getenv("PAYMENT_GATEWAY_URL")
}

// PaymentGatewayKey is the provider API key.
func PaymentGatewayKey() string {
	return os.Getenv("PAYMENT_GATEWAY_KEY")
}
