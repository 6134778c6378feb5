package tryon

import "errors"

var ErrInvalidSelection = errors.New("select either one garment or an upper and a lower garment")

// Selection is either one garment image or an upper/lower pair. Images are
// raw encoded bytes as uploaded by the user.
type Selection struct {
	Garment []byte
	Upper   []byte
	Lower   []byte
}

func Single(garment []byte) Selection {
	return Selection{Garment: garment}
}

func Pair(upper, lower []byte) Selection {
	return Selection{Upper: upper, Lower: lower}
}

// IsPair reports whether the selection holds two garments.
func (s Selection) IsPair() bool {
	return len(s.Upper) > 0 || len(s.Lower) > 0
}

func (s Selection) Validate() error {
	switch {
	case len(s.Garment) > 0 && !s.IsPair():
		return nil
	case len(s.Garment) == 0 && len(s.Upper) > 0 && len(s.Lower) > 0:
		return nil
	default:
		return ErrInvalidSelection
	}
}
