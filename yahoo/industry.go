package yahoo

import (
	"context"
	"encoding/xml"
	"fmt"
)

// The sector and industry tables are fetched as XML: their payload lives in
// element attributes, which map cleanly onto structs here, while the JSON
// rendering mangles single-industry sectors.

// IndustryRef identifies one industry in the sector catalogue.
type IndustryRef struct {
	ID   string `xml:"id,attr" json:"id"`
	Name string `xml:"name,attr" json:"name"`
}

// Sector groups the industries filed under one sector name.
type Sector struct {
	Name       string        `xml:"name,attr" json:"name"`
	Industries []IndustryRef `xml:"industry" json:"industries"`
}

// IndustryCompany is one company filed under an industry.
type IndustryCompany struct {
	Name   string `xml:"name,attr" json:"name"`
	Symbol string `xml:"symbol,attr" json:"symbol"`
}

// Industry is one industry with its member companies.
type Industry struct {
	ID        string            `xml:"id,attr" json:"id"`
	Name      string            `xml:"name,attr" json:"name"`
	Companies []IndustryCompany `xml:"company" json:"companies"`
}

type sectorsDocument struct {
	Sectors []Sector `xml:"results>sector"`
}

type industriesDocument struct {
	Industries []Industry `xml:"results>industry"`
}

// Sectors lists every sector and the industries filed under it.
func (c *Client) Sectors(ctx context.Context, opts ...ClientOption) ([]Sector, error) {
	s := c.call(opts)
	body, err := c.yqlXML(ctx, s, "select * from yahoo.finance.sectors")
	if err != nil {
		return nil, err
	}
	var doc sectorsDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding sectors: %w", err)
	}
	return doc.Sectors, nil
}

// Industries fetches the named industries with their member companies, in
// response order. Unknown ids are absent from the result rather than an
// error.
func (c *Client) Industries(ctx context.Context, ids []string, opts ...ClientOption) ([]Industry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	s := c.call(opts)

	statement := fmt.Sprintf("select * from yahoo.finance.industry where id in (%s)", yqlList(ids))
	body, err := c.yqlXML(ctx, s, statement)
	if err != nil {
		return nil, err
	}
	var doc industriesDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding industries: %w", err)
	}

	// Unknown ids come back as empty industry elements.
	industries := make([]Industry, 0, len(doc.Industries))
	for _, ind := range doc.Industries {
		if ind.ID != "" || ind.Name != "" {
			industries = append(industries, ind)
		}
	}
	return industries, nil
}

// Industry fetches one industry with its member companies. An unknown id
// yields ErrNotFound.
func (c *Client) Industry(ctx context.Context, id string, opts ...ClientOption) (*Industry, error) {
	industries, err := c.Industries(ctx, []string{id}, opts...)
	if err != nil {
		return nil, err
	}
	if len(industries) == 0 {
		return nil, fmt.Errorf("industry %q: %w", id, ErrNotFound)
	}
	return &industries[0], nil
}
