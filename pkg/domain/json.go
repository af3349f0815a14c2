package domain

import "encoding/json"

// Identifiers cross the wire as 0x-prefixed hex strings, never raw byte
// arrays, so JSON round-trips go through the same validation as any other
// caller-supplied value.

func (id BucketID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *BucketID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBucketID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (fp Fingerprint) MarshalJSON() ([]byte, error) {
	return json.Marshal(fp.String())
}

func (fp *Fingerprint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFingerprint(s)
	if err != nil {
		return err
	}
	*fp = parsed
	return nil
}

func (a AuthorAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *AuthorAddress) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAuthorAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
