package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "plain address", email: "a@b.com", want: true},
		{name: "dots and plus in local part", email: "first.last+tag@example.co", want: true},
		{name: "subdomain", email: "user@mail.example.com", want: true},
		{name: "missing at sign", email: "userexample.com", want: false},
		{name: "missing domain dot", email: "user@example", want: false},
		{name: "single letter tld", email: "user@example.c", want: false},
		{name: "empty string", email: "", want: false},
		{name: "spaces inside", email: "us er@example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "letters and digits", password: "abc12345", want: true},
		{name: "letters and symbols", password: "abcdef!?", want: true},
		{name: "digits and symbols", password: "1234567!", want: true},
		{name: "all three classes", password: "abc123!@#", want: true},
		{name: "short with all classes", password: "a1!", want: false},
		{name: "seven characters", password: "abc123!", want: false},
		{name: "letters only", password: "abcdefgh", want: false},
		{name: "digits only", password: "12345678", want: false},
		{name: "symbols only", password: "!@#$%^&*", want: false},
		{name: "empty string", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}
