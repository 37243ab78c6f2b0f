package blend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/echoflaresat/alphablend/colors"
)

// Mode selects one of the Porter-Duff operators.
type Mode uint8

const (
	Clear           Mode = iota // 0
	Source                      // src
	Destination                 // dst
	SourceOver                  // src*sa + dst*(1-sa)
	DestinationOver             // src*(1-da) + dst*da
	SourceIn                    // src*da
	DestinationIn               // dst*sa
	SourceOut                   // src*(1-da)
	DestinationOut              // dst*(1-sa)
	SourceAtop                  // src*da + dst*(1-sa)
	DestinationAtop             // src*(1-da) + dst*sa
	Xor                         // src*(1-da) + dst*(1-sa)
	Plus                        // src + dst

	numModes
)

// ErrUnknownMode is returned when parsing a name that is not a Mode.
var ErrUnknownMode = errors.New("unknown blend mode")

var modeNames = [numModes]string{
	Clear:           "Clear",
	Source:          "Source",
	Destination:     "Destination",
	SourceOver:      "SourceOver",
	DestinationOver: "DestinationOver",
	SourceIn:        "SourceIn",
	DestinationIn:   "DestinationIn",
	SourceOut:       "SourceOut",
	DestinationOut:  "DestinationOut",
	SourceAtop:      "SourceAtop",
	DestinationAtop: "DestinationAtop",
	Xor:             "Xor",
	Plus:            "Plus",
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, numModes)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// ParseMode looks a mode up by name, ignoring case.
func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(n, name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m < numModes
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// PorterDuff returns the operator for m. Modes that are not Valid resolve to
// SourceOver.
func (m Mode) PorterDuff() PorterDuff {
	if !m.Valid() {
		return porterDuff[SourceOver]
	}
	return porterDuff[m]
}

// Apply blends src onto dst with m.
func (m Mode) Apply(src, dst colors.F32x4Rgba) colors.F32x4Rgba {
	return m.PorterDuff().Apply(src, dst)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, uint8(m))
	}
	return []byte(modeNames[m]), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
