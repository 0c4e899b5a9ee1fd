// Package token signs the capability links embedded in recruiting emails.
//
// A token is base64url(subject) "." base64url(HMAC-SHA256(purpose|subject)).
// The purpose binds a token to one audience so a candidate link cannot be
// replayed against interviewer endpoints.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

type Purpose string

const (
	PurposeOutreach    Purpose = "outreach"
	PurposeInterviewer Purpose = "interviewer"
)

var ErrInvalidToken = errors.New("invalid token")

type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if len(secret) < 16 {
		return nil, errors.New("token secret must be at least 16 characters")
	}
	return &Signer{secret: []byte(secret)}, nil
}

func (s *Signer) Sign(purpose Purpose, subject string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(subject)) + "." + enc.EncodeToString(s.mac(purpose, subject))
}

// Verify returns the subject the token was issued for.
func (s *Signer) Verify(purpose Purpose, tok string) (string, error) {
	encSubject, encMAC, ok := strings.Cut(tok, ".")
	if !ok {
		return "", ErrInvalidToken
	}
	enc := base64.RawURLEncoding
	subject, err := enc.DecodeString(encSubject)
	if err != nil {
		return "", ErrInvalidToken
	}
	mac, err := enc.DecodeString(encMAC)
	if err != nil {
		return "", ErrInvalidToken
	}
	if !hmac.Equal(mac, s.mac(purpose, string(subject))) {
		return "", ErrInvalidToken
	}
	return string(subject), nil
}

// VerifySubject checks that tok was issued for exactly this subject.
func (s *Signer) VerifySubject(purpose Purpose, tok, subject string) error {
	got, err := s.Verify(purpose, tok)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(got), []byte(subject)) {
		return ErrInvalidToken
	}
	return nil
}

func (s *Signer) mac(purpose Purpose, subject string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(purpose))
	h.Write([]byte{'|'})
	h.Write([]byte(subject))
	return h.Sum(nil)
}
