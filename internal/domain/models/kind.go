package models

// Kind selects the upstream endpoint and the normalization schema.
type Kind string

const (
	KindSteps   Kind = "steps"
	KindSleep   Kind = "sleep"
	KindHeart   Kind = "heart"
	KindGlucose Kind = "glucose"
)

// AllKinds lists the kinds in tab order.
func AllKinds() []Kind {
	return []Kind{KindSleep, KindSteps, KindHeart, KindGlucose}
}

// IsValidKind returns true if k is a supported metric kind.
func IsValidKind(k Kind) bool {
	switch k {
	case KindSteps, KindSleep, KindHeart, KindGlucose:
		return true
	default:
		return false
	}
}

// ParseKind converts raw string to a kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !IsValidKind(k) {
		return "", ErrUnknownKind
	}
	return k, nil
}
