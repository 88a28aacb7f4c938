package graphruntime

import (
	"fmt"

	"github.com/google/uuid"
)

// TID is the stable, globally unique identifier of a component type. TIDs are
// assigned by the registration tool and printed as UUID strings in metadata
// files, so two component types never share one.
type TID struct {
	id uuid.UUID
}

// NilTID is the zero TID. It never identifies a registered type.
var NilTID = TID{}

// ParseTID parses the canonical UUID string form of a type identifier.
func ParseTID(s string) (TID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NilTID, fmt.Errorf("parse tid %q: %w", s, err)
	}
	return TID{id: id}, nil
}

// MustTID is ParseTID for compiled-in extension tables; it panics on a
// malformed literal.
func MustTID(s string) TID {
	tid, err := ParseTID(s)
	if err != nil {
		panic(err)
	}
	return tid
}

func (t TID) String() string {
	return t.id.String()
}

// IsZero reports whether t is the nil identifier.
func (t TID) IsZero() bool {
	return t.id == uuid.Nil
}

// UID identifies an entity or component within one Runtime. UIDs are
// allocated monotonically and never reused for the lifetime of the Runtime.
type UID uint64

// NilUID is reserved and always invalid.
const NilUID UID = 0

func (u UID) String() string {
	return fmt.Sprintf("%d", uint64(u))
}

// EntityCreateFlags is a bitmask of entity storage/usage behavior.
type EntityCreateFlags uint32

const (
	// EntityCreateProgram adds the entity to the program entities. Program
	// entities are activated when the program activates and deactivated when
	// it deactivates. An entity created after the program is already active
	// still starts out created and must be activated manually.
	EntityCreateProgram EntityCreateFlags = 1 << 0
)

// ComponentType describes one component type contributed by an extension.
// It is the unit of record in descriptors and metadata files.
type ComponentType struct {
	TID          TID    `yaml:"id"`
	TypeName     string `yaml:"typename"`
	BaseTypeName string `yaml:"base_typename,omitempty"`
	Description  string `yaml:"description,omitempty"`
}

// ExtensionDescriptor is what a registration entry point or a metadata file
// yields: the extension's identity plus the component types it contributes.
type ExtensionDescriptor struct {
	ID         TID             `yaml:"id"`
	Name       string          `yaml:"name"`
	Version    string          `yaml:"version"`
	Components []ComponentType `yaml:"components"`
}

// LoadExtensionsInfo carries the parameters of a load request. Direct
// extension filenames load first, then manifest-sourced ones, each in the
// order given. BaseDirectory is prepended to relative paths only.
type LoadExtensionsInfo struct {
	ExtensionFilenames []string
	ManifestFilenames  []string
	BaseDirectory      string
}

// EntityCreateInfo carries the parameters of an entity creation request. An
// empty Name asks the runtime to generate a unique one; explicit names must
// not start with a double underscore, which is reserved for generated names.
type EntityCreateInfo struct {
	Name  string
	Flags EntityCreateFlags
}

// MarshalYAML encodes a TID as its UUID string.
func (t TID) MarshalYAML() (any, error) {
	return t.id.String(), nil
}

// UnmarshalYAML decodes a TID from its UUID string.
func (t *TID) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	tid, err := ParseTID(s)
	if err != nil {
		return err
	}
	*t = tid
	return nil
}
