package yahoo_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fxtlabs/stockings/yahoo"
)

func TestSectors(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method; the sector catalogue is fetched as XML
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "select * from yahoo.finance.sectors", req.URL.Query().Get("q"))
			require.Equal(t, "xml", req.URL.Query().Get("format"))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(mockSectorsXML)),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Yahoo Finance client
	client, err := yahoo.New(yahoo.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call Sectors
	sectors, err := client.Sectors(t.Context())
	require.NoError(t, err)
	require.Len(t, sectors, 2)

	// Assert: the sectors should carry their industries
	require.Equal(t, "Basic Materials", sectors[0].Name)
	require.Len(t, sectors[0].Industries, 2)
	require.Equal(t, "112", sectors[0].Industries[0].ID)
	require.Equal(t, "Agricultural Chemicals", sectors[0].Industries[0].Name)
	require.Equal(t, "Technology", sectors[1].Name)
	require.Len(t, sectors[1].Industries, 1)
	require.Equal(t, "851", sectors[1].Industries[0].ID)
}

func TestIndustries(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, `select * from yahoo.finance.industry where id in ("112","999")`, req.URL.Query().Get("q"))
			require.Equal(t, "xml", req.URL.Query().Get("format"))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(mockIndustriesXML)),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Yahoo Finance client
	client, err := yahoo.New(yahoo.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call Industries with one unknown id
	industries, err := client.Industries(t.Context(), []string{"112", "999"})
	require.NoError(t, err)

	// Assert: the unknown id's empty element should be dropped
	require.Len(t, industries, 1)
	require.Equal(t, "112", industries[0].ID)
	require.Equal(t, "Agricultural Chemicals", industries[0].Name)
	require.Len(t, industries[0].Companies, 2)
	require.Equal(t, "AGU", industries[0].Companies[0].Symbol)
	require.Equal(t, "Agrium Inc.", industries[0].Companies[0].Name)
}

func TestIndustry(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(mockIndustriesXML)),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Yahoo Finance client
	client, err := yahoo.New(yahoo.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call Industry
	industry, err := client.Industry(t.Context(), "112")
	require.NoError(t, err)
	require.NotNil(t, industry)

	// Assert: the industry should carry its member companies
	require.Equal(t, "Agricultural Chemicals", industry.Name)
	require.Len(t, industry.Companies, 2)
}

func TestIndustry_ErrNotFound(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method; an unknown id answers with a bare empty
	// element
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(mockEmptyIndustryXML)),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Yahoo Finance client
	client, err := yahoo.New(yahoo.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call Industry with an unknown id
	industry, err := client.Industry(t.Context(), "999")
	require.ErrorIs(t, err, yahoo.ErrNotFound)
	require.Nil(t, industry)
}

func TestIndustries_NoIDs(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: nothing should reach the wire
	httpClient.EXPECT().
		Do(gomock.Any()).
		Times(0)

	// Arrange: setup a new Yahoo Finance client
	client, err := yahoo.New(yahoo.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call Industries with no ids
	industries, err := client.Industries(t.Context(), nil)
	require.NoError(t, err)
	require.Empty(t, industries)
}

// mockSectorsXML is a two-sector slice of the sector catalogue.
const mockSectorsXML = `<?xml version="1.0" encoding="UTF-8"?>
<query xmlns:yahoo="http://www.yahooapis.com/v1/base.rng" yahoo:count="2" yahoo:created="2011-05-27T20:04:34Z" yahoo:lang="en-US">
    <results>
        <sector name="Basic Materials">
            <industry id="112" name="Agricultural Chemicals"/>
            <industry id="132" name="Aluminum"/>
        </sector>
        <sector name="Technology">
            <industry id="851" name="Application Software"/>
        </sector>
    </results>
</query>`

// mockIndustriesXML is an industry answer for one known and one unknown
// id; the unknown id comes back as an empty element.
const mockIndustriesXML = `<?xml version="1.0" encoding="UTF-8"?>
<query xmlns:yahoo="http://www.yahooapis.com/v1/base.rng" yahoo:count="2" yahoo:created="2011-05-27T20:04:34Z" yahoo:lang="en-US">
    <results>
        <industry id="112" name="Agricultural Chemicals">
            <company name="Agrium Inc." symbol="AGU"/>
            <company name="American Vanguard Corp." symbol="AVD"/>
        </industry>
        <industry/>
    </results>
</query>`

// mockEmptyIndustryXML is the answer for a single unknown industry id.
const mockEmptyIndustryXML = `<?xml version="1.0" encoding="UTF-8"?>
<query xmlns:yahoo="http://www.yahooapis.com/v1/base.rng" yahoo:count="1" yahoo:created="2011-05-27T20:04:34Z" yahoo:lang="en-US">
    <results>
        <industry/>
    </results>
</query>`
