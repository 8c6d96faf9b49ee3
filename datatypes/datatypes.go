package datatypes

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/zefrenchwan/topicmaps.git/locators"
)

const (
	// XSD_NAMESPACE is the namespace of xml schema datatypes
	XSD_NAMESPACE = "http://www.w3.org/2001/XMLSchema#"
)

var (
	// XSD_STRING is the default datatype for names, occurrences and variants
	XSD_STRING = locators.MustLocator(XSD_NAMESPACE + "string")
	// XSD_ANY_URI is the datatype for values that are IRIs
	XSD_ANY_URI = locators.MustLocator(XSD_NAMESPACE + "anyURI")
	// XSD_INT is a 32 bits integer
	XSD_INT = locators.MustLocator(XSD_NAMESPACE + "int")
	// XSD_INTEGER is an unbounded integer
	XSD_INTEGER = locators.MustLocator(XSD_NAMESPACE + "integer")
	// XSD_LONG is a 64 bits integer
	XSD_LONG = locators.MustLocator(XSD_NAMESPACE + "long")
	// XSD_FLOAT is a 32 bits float
	XSD_FLOAT = locators.MustLocator(XSD_NAMESPACE + "float")
	// XSD_DECIMAL is an arbitrary precision decimal
	XSD_DECIMAL = locators.MustLocator(XSD_NAMESPACE + "decimal")
)

// Literal is a value with its datatype.
// Two literals are equal if both value and datatype are equal, so literals are comparable
type Literal struct {
	// Value is the lexical representation of the value
	Value string
	// Datatype is the locator of the datatype
	Datatype locators.Locator
}

// NewStringLiteral returns a literal with xsd:string datatype
func NewStringLiteral(value string) Literal {
	return Literal{Value: value, Datatype: XSD_STRING}
}

// NewLocatorLiteral returns a literal for an IRI
func NewLocatorLiteral(value locators.Locator) Literal {
	return Literal{Value: value.Reference(), Datatype: XSD_ANY_URI}
}

// NewLiteral returns a literal with given datatype.
// A zero datatype is an error
func NewLiteral(value string, datatype locators.Locator) (Literal, error) {
	if datatype.IsZero() {
		return Literal{}, errors.New("nil datatype")
	}

	return Literal{Value: value, Datatype: datatype}, nil
}

// NewIntLiteral returns the xsd:int literal for value
func NewIntLiteral(value int32) Literal {
	return Literal{Value: strconv.FormatInt(int64(value), 10), Datatype: XSD_INT}
}

// NewLongLiteral returns the xsd:long literal for value
func NewLongLiteral(value int64) Literal {
	return Literal{Value: strconv.FormatInt(value, 10), Datatype: XSD_LONG}
}

// NewFloatLiteral returns the xsd:float literal for value
func NewFloatLiteral(value float32) Literal {
	return Literal{Value: strconv.FormatFloat(float64(value), 'g', -1, 32), Datatype: XSD_FLOAT}
}

// NewDecimalLiteral returns the xsd:decimal literal for value
func NewDecimalLiteral(value *big.Float) (Literal, error) {
	if value == nil {
		return Literal{}, errors.New("nil decimal")
	}

	return Literal{Value: value.Text('f', -1), Datatype: XSD_DECIMAL}, nil
}

// IsSameAs returns true for same value and same datatype
func (l Literal) IsSameAs(other Literal) bool {
	return l.Value == other.Value && l.Datatype == other.Datatype
}

// IntValue parses the value as a 32 bits integer, no matter the datatype
func (l Literal) IntValue() (int32, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(l.Value), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an int: %s", l.Value)
	}

	return int32(value), nil
}

// LongValue parses the value as a 64 bits integer
func (l Literal) LongValue() (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(l.Value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a long: %s", l.Value)
	}

	return value, nil
}

// FloatValue parses the value as a 32 bits float
func (l Literal) FloatValue() (float32, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(l.Value), 32)
	if err != nil {
		return 0, fmt.Errorf("not a float: %s", l.Value)
	}

	return float32(value), nil
}

// DecimalValue parses the value as an arbitrary precision decimal
func (l Literal) DecimalValue() (*big.Float, error) {
	value, ok := new(big.Float).SetString(strings.TrimSpace(l.Value))
	if !ok {
		return nil, fmt.Errorf("not a decimal: %s", l.Value)
	}

	return value, nil
}

// LocatorValue returns the value as a locator
func (l Literal) LocatorValue() (locators.Locator, error) {
	return locators.NewLocator(l.Value)
}
