package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type flagTable struct {
	defs  []Definition
	index map[string]int
}

func newFlagTable(defs []Definition) *flagTable {
	t := &flagTable{defs: defs, index: make(map[string]int, len(defs))}
	for i, d := range defs {
		t.index[d.Name] = i
	}
	return t
}

var (
	featureTable     = newFlagTable(featureDefs[:])
	outcomeTable     = newFlagTable(outcomeDefs[:])
	compositionTable = newFlagTable(compositionDefs[:])
)

func (t *flagTable) get(values []bool, name string) (bool, bool) {
	i, ok := t.index[name]
	if !ok {
		return false, false
	}
	return values[i], true
}

func (t *flagTable) set(values []bool, name string, v bool) bool {
	i, ok := t.index[name]
	if ok {
		values[i] = v
	}
	return ok
}

func (t *flagTable) each(values []bool, fn func(Definition, bool)) {
	for i, d := range t.defs {
		fn(d, values[i])
	}
}

func (t *flagTable) apply(values []bool, traits Traits) {
	for i, d := range t.defs {
		values[i] = d.Default(traits)
	}
}

func (t *flagTable) marshal(values []bool) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range t.defs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(d.Name))
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatBool(values[i]))
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// unmarshal reads a JSON object keyed by flag name. Unknown keys are
// ignored and absent keys are false.
func (t *flagTable) unmarshal(values []bool, data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding flag set: %w", err)
	}
	for i := range values {
		values[i] = false
	}
	for name, v := range raw {
		if i, ok := t.index[name]; ok {
			values[i] = truthy(v)
		}
	}
	return nil
}

// truthy interprets a model-supplied flag value. Models occasionally emit
// "true" or 1 instead of a JSON boolean.
func truthy(v json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		parsed, err := strconv.ParseBool(strings.TrimSpace(s))
		return err == nil && parsed
	}
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return n != 0
	}
	return false
}

func countTrue(values []bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}

// CreativeFeatures holds the 32 creative feature flags in table order.
type CreativeFeatures [NumCreativeFeatures]bool

// DefaultFeatures evaluates every feature's default rule against traits.
func DefaultFeatures(traits Traits) CreativeFeatures {
	var f CreativeFeatures
	featureTable.apply(f[:], traits)
	return f
}

// Get returns the named feature and whether the name is known.
func (f CreativeFeatures) Get(name string) (bool, bool) { return featureTable.get(f[:], name) }

// Set assigns the named feature. It returns false for unknown names.
func (f *CreativeFeatures) Set(name string, v bool) bool { return featureTable.set(f[:], name, v) }

// Count returns the number of features that are true.
func (f CreativeFeatures) Count() int { return countTrue(f[:]) }

// Each calls fn for every feature in table order.
func (f CreativeFeatures) Each(fn func(Definition, bool)) { featureTable.each(f[:], fn) }

func (f CreativeFeatures) MarshalJSON() ([]byte, error) { return featureTable.marshal(f[:]), nil }

func (f *CreativeFeatures) UnmarshalJSON(data []byte) error {
	return featureTable.unmarshal(f[:], data)
}

// BusinessOutcomes holds the 25 business outcome flags in table order.
type BusinessOutcomes [NumBusinessOutcomes]bool

// DefaultOutcomes evaluates every outcome's default rule against traits.
func DefaultOutcomes(traits Traits) BusinessOutcomes {
	var o BusinessOutcomes
	outcomeTable.apply(o[:], traits)
	return o
}

func (o BusinessOutcomes) Get(name string) (bool, bool)   { return outcomeTable.get(o[:], name) }
func (o *BusinessOutcomes) Set(name string, v bool) bool  { return outcomeTable.set(o[:], name, v) }
func (o BusinessOutcomes) Count() int                     { return countTrue(o[:]) }
func (o BusinessOutcomes) Each(fn func(Definition, bool)) { outcomeTable.each(o[:], fn) }
func (o BusinessOutcomes) MarshalJSON() ([]byte, error)   { return outcomeTable.marshal(o[:]), nil }
func (o *BusinessOutcomes) UnmarshalJSON(data []byte) error {
	return outcomeTable.unmarshal(o[:], data)
}

// CampaignComposition holds the 8 composition flags in table order.
type CampaignComposition [NumCompositionFlags]bool

// InferComposition derives composition flags from the file name and mime
// type alone. File names are matched case-insensitively.
func InferComposition(traits Traits) CampaignComposition {
	var c CampaignComposition
	compositionTable.apply(c[:], traits)
	return c
}

func (c CampaignComposition) Get(name string) (bool, bool) { return compositionTable.get(c[:], name) }
func (c *CampaignComposition) Set(name string, v bool) bool {
	return compositionTable.set(c[:], name, v)
}
func (c CampaignComposition) Count() int                     { return countTrue(c[:]) }
func (c CampaignComposition) Each(fn func(Definition, bool)) { compositionTable.each(c[:], fn) }
func (c CampaignComposition) MarshalJSON() ([]byte, error) {
	return compositionTable.marshal(c[:]), nil
}
func (c *CampaignComposition) UnmarshalJSON(data []byte) error {
	return compositionTable.unmarshal(c[:], data)
}
