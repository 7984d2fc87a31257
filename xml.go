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
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/flowfix/go-ipfix/iana/semantics"
	"github.com/flowfix/go-ipfix/iana/status"
)

// MustReadXML is ReadXML, panicking on error; intended for package
// initialization with a trusted, embedded registry document.
func MustReadXML(r io.Reader) map[uint16]InformationElement {
	m, err := ReadXML(r)
	if err != nil {
		panic(err)
	}
	return m
}

// ReadXML parses the IANA IPFIX Information Element registry's XML export
// format (the same schema IANA publishes at iana.org/assignments/ipfix)
// into a map of Information Elements keyed by element ID, for bulk-loading
// via Registry.UseSpecfile. The records are read from the Information
// Element sub-registry nested inside the top-level <registry> element.
func ReadXML(r io.Reader) (map[uint16]InformationElement, error) {
	type ianaIERecord struct {
		Name         string             `xml:"name"`
		EnterpriseId uint32             `xml:"enterpriseId"`
		Reversible   bool               `xml:"reversible"`
		Id           string             `xml:"elementId"`
		Description  []string           `xml:"description>paragraph"`
		DataType     *string            `xml:"dataType"`
		Group        *string            `xml:"group"`
		Revision     *int               `xml:"revision"`
		Status       status.Status      `xml:"status"`
		Semantic     semantics.Semantic `xml:"dataTypeSemantics"`
		Date         *string            `xml:"date"`
		Range        *string            `xml:"range"`
		Units        *string            `xml:"units"`
	}
	type ianaIERegistry struct {
		Id      *string `xml:"id,attr"`
		Title   *string `xml:"title"`
		Created *string `xml:"created"`
		Updated *string `xml:"updated"`

		Records []ianaIERecord `xml:"registry>record"`
	}

	o, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	re := ianaIERegistry{}
	if err := xml.Unmarshal(o, &re); err != nil {
		return nil, err
	}

	m := make(map[uint16]InformationElement)

	for _, rec := range re.Records {
		field := InformationElement{
			Name:         rec.Name,
			Semantics:    rec.Semantic,
			Status:       rec.Status,
			Units:        rec.Units,
			Revision:     rec.Revision,
			Date:         rec.Date,
			Type:         rec.DataType,
			EnterpriseId: rec.EnterpriseId,
		}

		if description := rec.Description; description != nil {
			for idx, d := range description {
				description[idx] = strings.TrimSpace(d)
			}
			d := strings.Join(description, "\n")
			field.Description = &d
		}

		if rec.Range != nil {
			if fr := strings.Split(*rec.Range, "-"); len(fr) == 2 {
				low, _ := strconv.Atoi(fr[0])
				high, _ := strconv.Atoi(fr[1])
				field.Range = &InformationElementRange{Low: low, High: high}
			}
		}

		if typ := rec.DataType; typ != nil {
			field.Constructor = LookupConstructor(*typ)
		}

		id, err := strconv.Atoi(rec.Id)
		if err != nil {
			// elementId node did not contain a single number; IANA's export
			// carries range placeholders ("26 - 127") for unassigned blocks.
			continue
		}
		field.Id = uint16(id)
		m[uint16(id)] = field
	}

	return m, nil
}
