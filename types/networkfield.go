package types

import "encoding/json"

// NetworkField is the config "network" value: creators may write a single
// key ("base"), a list (["base", "base-sepolia"]), or omit it entirely.
// It always normalizes to a list; nil means "all available networks".
type NetworkField []string

func (f *NetworkField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*f = nil
		} else {
			*f = NetworkField{single}
		}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*f = NetworkField(list)
	return nil
}

// MarshalJSON keeps the compact single-string form for one-element lists so
// encoded tokens round-trip byte-for-byte with configs written by hand.
func (f NetworkField) MarshalJSON() ([]byte, error) {
	if len(f) == 1 {
		return json.Marshal(f[0])
	}
	return json.Marshal([]string(f))
}
