package facepack

import (
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

// EncodeDataURI encodes img as a base64 data URI in format f.
func EncodeDataURI(img image.Image, f Format) (string, error) {
	data, err := f.EncodeBytes(img)
	if err != nil {
		return "", err
	}
	return "data:" + f.MIME() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURI splits a base64 data URI into its media type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding payload: %w", err)
	}
	return mime, data, nil
}

func formatFromMIME(mime string) (Format, error) {
	sub, ok := strings.CutPrefix(mime, "image/")
	if !ok {
		return "", fmt.Errorf("unsupported media type: %q", mime)
	}
	return ParseFormat(sub)
}
