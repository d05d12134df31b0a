package links

import (
	"errors"
	"net/url"
)

const (
	maxTitleLength = 512
	maxNoteLength  = 4096
)

func ValidateLink(link *Link) error {
	if link.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(link.URL)
	if err != nil {
		return errors.New("invalid url format")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("url must include a host")
	}

	if len(link.Title) > maxTitleLength {
		return errors.New("title is too long")
	}
	if len(link.Note) > maxNoteLength {
		return errors.New("note is too long")
	}

	return nil
}
