package model

type Email struct {
	To      []string
	Cc      []string
	Subject string
	HTML    string
}
