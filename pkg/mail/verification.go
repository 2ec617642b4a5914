package mail

import (
	"fmt"
	"strings"
)

// VerificationMessage builds the account verification email sent at registration.
// The link is the verification base URL with the token and user id appended.
func VerificationMessage(to, name, link string) Message {
	greeting := "Hello"
	if strings.TrimSpace(name) != "" {
		greeting = fmt.Sprintf("Hello %s", strings.TrimSpace(name))
	}

	body := fmt.Sprintf(
		"%s,\n\nThanks for signing up. Please confirm your email address by visiting the link below:\n%s\n\nIf you did not create an account, you can ignore this message.\n",
		greeting, link,
	)

	return Message{
		To:      []string{to},
		Subject: "Confirm your account",
		Body:    body,
	}
}

// VerificationLink renders the link embedded in verification emails. With an
// empty base URL the raw token is returned so callers can still surface it.
func VerificationLink(baseURL, userID, token string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return token
	}
	return fmt.Sprintf("%s?id=%s&token=%s", base, userID, token)
}
