package vedic

import (
	"fmt"
	"strings"
)

type Sex string

const (
	Male   Sex = "MALE"
	Female Sex = "FEMALE"
)

func ParseSex(s string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MALE", "M":
		return Male, nil
	case "FEMALE", "F":
		return Female, nil
	}
	return "", fmt.Errorf("invalid gender %q", s)
}
