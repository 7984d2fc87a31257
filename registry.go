/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ipfix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FieldKey uniquely identifies an Information Element by enterprise number
// and element number, independent of its name or occurrence length. It
// doubles as a map key, since InformationElement itself holds pointer
// fields and is not comparable.
type FieldKey struct {
	EnterpriseId uint32 `json:"pen"`
	Id           uint16 `json:"id"`
}

func (k FieldKey) String() string {
	return fmt.Sprintf("%d:%d", k.EnterpriseId, k.Id)
}

// Registry is a process-wide cache of Information Elements, keyed both by
// (enterprise number, element number) and by canonical name. It follows the
// single-writer/many-reader discipline the rest of this codebase uses for
// its caches: a sync.RWMutex guards the maps, bulk loads take the write
// lock, and lookups after loading are pure reads.
type Registry struct {
	mu sync.RWMutex

	byKey  map[FieldKey]InformationElement
	byName map[string]InformationElement
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:  make(map[FieldKey]InformationElement),
		byName: make(map[string]InformationElement),
	}
}

// defaultRegistry is the process-wide Registry instance backing the
// package-level ForSpec/ForTemplateEntry/UseIANADefault/... functions.
var defaultRegistry = NewRegistry()

// Add registers ie, indexing it by both its FieldKey and its name. A later
// Add for the same key overwrites the earlier entry.
func (r *Registry) Add(ie InformationElement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(ie)
}

func (r *Registry) addLocked(ie InformationElement) {
	r.byKey[ie.FieldKey()] = ie
	if ie.Name != "" {
		r.byName[ie.Name] = ie
	}
}

// Get looks up an Information Element by enterprise number and element number.
func (r *Registry) Get(pen uint32, num uint16) (InformationElement, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ie, ok := r.byKey[FieldKey{EnterpriseId: pen, Id: num}]
	return ie, ok
}

// GetByName looks up an Information Element by its canonical name.
func (r *Registry) GetByName(name string) (InformationElement, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ie, ok := r.byName[name]
	return ie, ok
}

// ForSpec implements registry operation `for_spec`: parse an IESpec of the
// form `name(pen/num)<type>[size]`. If only a name, or only a number
// (optionally with a pen), is given, it looks up an existing Information
// Element. If a type is present alongside enough identity to name a new
// entry, a new Information Element is registered and returned.
func (r *Registry) ForSpec(spec string) (InformationElement, error) {
	s, err := parseIESpec(spec)
	if err != nil {
		return InformationElement{}, err
	}

	lookupOnly := !s.hasType && !s.hasSize

	if lookupOnly {
		if s.hasNum {
			if ie, ok := r.Get(s.pen, s.num); ok {
				return ie, nil
			}
			return InformationElement{}, invalidSpec(spec, "no information element registered for this (pen, num)")
		}
		if ie, ok := r.GetByName(s.name); ok {
			return ie, nil
		}
		return InformationElement{}, invalidSpec(spec, "no information element registered under this name")
	}

	ctor := LookupConstructor(s.typeName)
	if s.hasType && ctor == nil {
		return InformationElement{}, invalidSpec(spec, "unknown abstract data type "+s.typeName)
	}

	ie := InformationElement{
		Name:         s.name,
		EnterpriseId: s.pen,
		Id:           s.num,
		Constructor:  ctor,
	}
	if s.hasType {
		t := s.typeName
		ie.Type = &t
	}
	if s.hasSize {
		ie.Length = s.size
	}

	if !s.hasNum {
		// without an explicit number we cannot register a new entry, since
		// (pen, num) is the identity of an Information Element
		if existing, ok := r.GetByName(s.name); ok {
			return existing, nil
		}
		return InformationElement{}, invalidSpec(spec, "cannot register a new information element without an element number")
	}

	r.Add(ie)
	return ie, nil
}

// ForTemplateEntry implements registry operation `for_template_entry`, used
// while decoding a Template Record. If the IE is known, it returns a copy
// with length set to the wire-declared length, without mutating the
// registry's own default-length entry. If unknown, it synthesizes a
// placeholder `octetArray` Information Element and registers it so that
// subsequent template records referencing the same (pen, num) resolve
// consistently.
func (r *Registry) ForTemplateEntry(pen uint32, num uint16, length uint16) InformationElement {
	if ie, ok := r.Get(pen, num); ok {
		ie.Length = length
		return ie
	}

	name := fmt.Sprintf("_ipfix_%d_%d", pen, num)
	typ := "octetArray"
	ie := InformationElement{
		Name:         name,
		EnterpriseId: pen,
		Id:           num,
		Length:       length,
		Constructor:  NewOctetArray,
		Type:         &typ,
	}
	r.Add(ie)
	return ie
}

// UseIANADefault implements registry operation `use_iana_default`: it loads
// the embedded seed of well-known IANA Information Elements.
func (r *Registry) UseIANADefault() error {
	ies, err := ReadCSV(strings.NewReader(seedRegistryCSV))
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ie := range ies {
		r.addLocked(ie)
	}
	return nil
}

// Use5103Default implements registry operation `use_5103_default`: for every
// currently registered, reversible IE (per RFC 5103/5102), it derives and
// registers a reverse counterpart at PEN 29305 with a `reverse`-prefixed
// name. Non-reversible IEs (e.g. biflowDirection) are left without a reverse
// counterpart.
func (r *Registry) Use5103Default() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	forward := make([]InformationElement, 0, len(r.byKey))
	for _, ie := range r.byKey {
		if ie.EnterpriseId != 0 {
			continue
		}
		forward = append(forward, ie)
	}

	for _, ie := range forward {
		if !Reversible(ie.Id) {
			continue
		}
		reverse := ie.Clone()
		reverse.EnterpriseId = ReversePEN
		reverse.Name = reversedName(ie.Name)
		r.addLocked(reverse)
	}
	return nil
}

// UseSpecfile implements registry operation `use_specfile`: it bulk-loads a
// registry document, dispatching on file extension between the CSV, YAML and
// IANA XML encodings described in the ambient registry bulk-load formats.
func (r *Registry) UseSpecfile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		ies, err := ReadCSV(f)
		if err != nil {
			return err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, ie := range ies {
			r.addLocked(ie)
		}
		return nil
	case ".yaml", ".yml":
		ies, err := ReadYAML(f)
		if err != nil {
			return err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, ie := range ies {
			r.addLocked(*ie)
		}
		return nil
	case ".xml":
		ies, err := ReadXML(f)
		if err != nil {
			return err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		for _, ie := range ies {
			r.addLocked(ie)
		}
		return nil
	default:
		return invalidSpec(path, "unsupported registry file extension, want .csv, .yaml, .yml, or .xml")
	}
}

// ClearInfomodel implements registry operation `clear_infomodel`, emptying
// the registry of all entries.
func (r *Registry) ClearInfomodel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey = make(map[FieldKey]InformationElement)
	r.byName = make(map[string]InformationElement)
}

// SpecList implements registry operation `spec_list`, parsing a list of
// IESpecs into an InformationElementList suitable as a tuple projection or a
// packing-plan cache key.
func (r *Registry) SpecList(specs []string) (InformationElementList, error) {
	list := make(InformationElementList, 0, len(specs))
	for _, s := range specs {
		ie, err := r.ForSpec(s)
		if err != nil {
			return nil, err
		}
		list = append(list, ie)
	}
	return list, nil
}

// Package-level facade over the process-wide default Registry; the embedded
// seed registry in constants.go is loaded into it only by UseIANADefault.

func ForSpec(spec string) (InformationElement, error) {
	return defaultRegistry.ForSpec(spec)
}

func ForTemplateEntry(pen uint32, num uint16, length uint16) InformationElement {
	return defaultRegistry.ForTemplateEntry(pen, num, length)
}

func UseIANADefault() error {
	return defaultRegistry.UseIANADefault()
}

func Use5103Default() error {
	return defaultRegistry.Use5103Default()
}

func UseSpecfile(path string) error {
	return defaultRegistry.UseSpecfile(path)
}

func ClearInfomodel() {
	defaultRegistry.ClearInfomodel()
}

func SpecList(specs []string) (InformationElementList, error) {
	return defaultRegistry.SpecList(specs)
}
