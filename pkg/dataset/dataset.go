// Package dataset holds the time-indexed, multi-variable dataset model and
// the components that build it: the assembler for raw log files and the
// merger for independently acquired datasets.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Attribute keys.
const (
	AttrUnit       = "unit"
	AttrLongName   = "long_name"
	AttrSourceType = "source_type"
	AttrSensor     = "sensor"
)

var (
	ErrNoFiles          = errors.New("no input files found")
	ErrNoData           = errors.New("no data")
	ErrLengthMismatch   = errors.New("variable length does not match time axis")
	ErrVariableNotFound = errors.New("variable not found")
)

// Variable is one named data series aligned with the dataset time axis.
// Exactly one of Data and Text is set.
type Variable struct {
	Name  string
	Data  []float64
	Text  []string
	Attrs map[string]string
}

// IsText reports whether the variable holds raw strings.
func (v *Variable) IsText() bool {
	return v.Text != nil
}

// Len returns the number of values.
func (v *Variable) Len() int {
	if v.IsText() {
		return len(v.Text)
	}
	return len(v.Data)
}

// Unit returns the unit attribute.
func (v *Variable) Unit() string {
	return v.Attrs[AttrUnit]
}

// Valid returns the number of non-missing values.
func (v *Variable) Valid() int {
	n := 0
	if v.IsText() {
		for _, s := range v.Text {
			if s != "" {
				n++
			}
		}
		return n
	}
	for _, x := range v.Data {
		if !math.IsNaN(x) {
			n++
		}
	}
	return n
}

func (v *Variable) clone() *Variable {
	c := &Variable{Name: v.Name, Attrs: copyAttrs(v.Attrs)}
	if v.Text != nil {
		c.Text = append([]string(nil), v.Text...)
	} else {
		c.Data = append([]float64(nil), v.Data...)
	}
	return c
}

// Dataset is a set of variables on a shared, ascending time axis.
// Missing values are NaN for numeric variables and "" for text variables.
type Dataset struct {
	Time  []time.Time
	Attrs map[string]string

	vars  map[string]*Variable
	order []string
}

// New creates an empty dataset on the given time axis.
func New(times []time.Time) *Dataset {
	return &Dataset{
		Time:  times,
		Attrs: make(map[string]string),
		vars:  make(map[string]*Variable),
	}
}

// Len returns the length of the time axis.
func (d *Dataset) Len() int {
	return len(d.Time)
}

// Names returns the variable names in insertion order.
func (d *Dataset) Names() []string {
	return append([]string(nil), d.order...)
}

// Var returns the named variable.
func (d *Dataset) Var(name string) (*Variable, bool) {
	v, ok := d.vars[name]
	return v, ok
}

// Has reports whether all named variables exist.
func (d *Dataset) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := d.vars[n]; !ok {
			return false
		}
	}
	return true
}

// Float returns the data of a numeric variable.
func (d *Dataset) Float(name string) ([]float64, error) {
	v, ok := d.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVariableNotFound, name)
	}
	if v.IsText() {
		return nil, fmt.Errorf("variable %s is not numeric", name)
	}
	return v.Data, nil
}

// Add adds or replaces a variable.
func (d *Dataset) Add(v *Variable) error {
	if v.Len() != d.Len() {
		return fmt.Errorf("%w: %s has %d values, time axis has %d", ErrLengthMismatch, v.Name, v.Len(), d.Len())
	}
	if v.Attrs == nil {
		v.Attrs = make(map[string]string)
	}
	if _, ok := d.vars[v.Name]; !ok {
		d.order = append(d.order, v.Name)
	}
	d.vars[v.Name] = v
	return nil
}

// SetFloat sets the data of a numeric variable, keeping the attributes of
// an existing variable of that name.
func (d *Dataset) SetFloat(name string, data []float64, attrs map[string]string) error {
	v := &Variable{Name: name, Data: data, Attrs: make(map[string]string)}
	if old, ok := d.vars[name]; ok {
		v.Attrs = copyAttrs(old.Attrs)
	}
	for k, val := range attrs {
		v.Attrs[k] = val
	}
	return d.Add(v)
}

// Drop removes the named variables and returns how many existed.
func (d *Dataset) Drop(names ...string) int {
	n := 0
	for _, name := range names {
		if _, ok := d.vars[name]; !ok {
			continue
		}
		delete(d.vars, name)
		for i, o := range d.order {
			if o == name {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
		n++
	}
	return n
}

// Rename renames a variable in place.
func (d *Dataset) Rename(from, to string) error {
	v, ok := d.vars[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrVariableNotFound, from)
	}
	if _, exists := d.vars[to]; exists {
		return fmt.Errorf("variable %s already exists", to)
	}
	delete(d.vars, from)
	v.Name = to
	d.vars[to] = v
	for i, o := range d.order {
		if o == from {
			d.order[i] = to
		}
	}
	return nil
}

// Keep drops every variable not in names and returns the dropped names.
func (d *Dataset) Keep(names []string) []string {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	var dropped []string
	for _, n := range d.Names() {
		if !keep[n] {
			dropped = append(dropped, n)
		}
	}
	d.Drop(dropped...)
	return dropped
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	c := New(append([]time.Time(nil), d.Time...))
	c.Attrs = copyAttrs(d.Attrs)
	for _, n := range d.order {
		v := d.vars[n].clone()
		c.vars[n] = v
		c.order = append(c.order, n)
	}
	return c
}

// Start returns the first timestamp, or the zero time for an empty dataset.
func (d *Dataset) Start() time.Time {
	if len(d.Time) == 0 {
		return time.Time{}
	}
	return d.Time[0]
}

// End returns the last timestamp, or the zero time for an empty dataset.
func (d *Dataset) End() time.Time {
	if len(d.Time) == 0 {
		return time.Time{}
	}
	return d.Time[len(d.Time)-1]
}

func copyAttrs(a map[string]string) map[string]string {
	c := make(map[string]string, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}
