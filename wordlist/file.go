package wordlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/otname/ot"
	"gopkg.in/yaml.v3"
)

// fileFormat is the external representation of a dictionary.
type fileFormat struct {
	Italics  []string            `yaml:"italics" json:"italics"`
	Obliques []string            `yaml:"obliques" json:"obliques"`
	Weights  map[string][]string `yaml:"weights" json:"weights"`
	Widths   map[string][]string `yaml:"widths" json:"widths"`
}

// Load reads a dictionary from a file. Files with extension ".json" are read
// as JSON, all others as YAML.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ot.Errorf(ot.ErrIO, "reading dictionary: %v", err)
	}
	var ff fileFormat
	if isJSON(path) {
		err = json.Unmarshal(data, &ff)
	} else {
		err = yaml.Unmarshal(data, &ff)
	}
	if err != nil {
		return nil, ot.Errorf(ot.ErrValidation, "dictionary %s: %v", filepath.Base(path), err)
	}
	d, err := ff.dictionary()
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded dictionary %s: %d weights, %d widths", path, len(d.Weights), len(d.Widths))
	return d, nil
}

// Save writes the dictionary to a file, as JSON if the file has extension
// ".json", and as YAML otherwise.
func (d *Dictionary) Save(path string) error {
	ff := d.fileFormat()
	var data []byte
	var err error
	if isJSON(path) {
		data, err = json.MarshalIndent(ff, "", "  ")
	} else {
		data, err = yaml.Marshal(ff)
	}
	if err != nil {
		return ot.Errorf(ot.ErrIO, "encoding dictionary: %v", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return ot.Errorf(ot.ErrIO, "writing dictionary: %v", err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func (d *Dictionary) fileFormat() fileFormat {
	ff := fileFormat{
		Italics:  []string{d.Italic.Short, d.Italic.Long},
		Obliques: []string{d.Oblique.Short, d.Oblique.Long},
		Weights:  make(map[string][]string, len(d.Weights)),
		Widths:   make(map[string][]string, len(d.Widths)),
	}
	for c, p := range d.Weights {
		ff.Weights[strconv.Itoa(c)] = []string{p.Short, p.Long}
	}
	for c, p := range d.Widths {
		ff.Widths[strconv.Itoa(c)] = []string{p.Short, p.Long}
	}
	return ff
}

func (ff fileFormat) dictionary() (*Dictionary, error) {
	d := &Dictionary{Weights: make(map[int]Pair), Widths: make(map[int]Pair)}
	pair := func(what string, words []string) (Pair, error) {
		if len(words) != 2 {
			return Pair{}, ot.Errorf(ot.ErrValidation, "%s: need 2 words, have %d", what, len(words))
		}
		return makePair(words[0], words[1]), nil
	}
	var err error
	if d.Italic, err = pair("italics", ff.Italics); err != nil {
		return nil, err
	}
	if d.Oblique, err = pair("obliques", ff.Obliques); err != nil {
		return nil, err
	}
	for k, words := range ff.Weights {
		c, err := strconv.Atoi(k)
		if err != nil {
			return nil, ot.Errorf(ot.ErrValidation, "weight class %q is not a number", k)
		}
		p, err := pair("weight "+k, words)
		if err != nil {
			return nil, err
		}
		if err := d.SetWeight(c, p.Short, p.Long); err != nil {
			return nil, err
		}
	}
	for k, words := range ff.Widths {
		c, err := strconv.Atoi(k)
		if err != nil {
			return nil, ot.Errorf(ot.ErrValidation, "width class %q is not a number", k)
		}
		p, err := pair("width "+k, words)
		if err != nil {
			return nil, err
		}
		if err := d.SetWidth(c, p.Short, p.Long); err != nil {
			return nil, err
		}
	}
	return d, nil
}
