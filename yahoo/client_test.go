package yahoo_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fxtlabs/stockings/yahoo"
)

func TestNew_ErrNegativeMinInterval(t *testing.T) {
	t.Parallel()

	// Act: setup a client with a negative polite interval
	client, err := yahoo.New(yahoo.WithMinInterval(-time.Second))
	require.Error(t, err)
	require.Nil(t, client)
}

func TestNew_ErrNonPositiveMaxConcurrency(t *testing.T) {
	t.Parallel()

	// Act: setup a client with a zero fan-out bound
	client, err := yahoo.New(yahoo.WithMaxConcurrency(0))
	require.Error(t, err)
	require.Nil(t, client)
}

func TestClient_PerCallHeaderDoesNotLeak(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the first request carries the client header and the per-call
	// header
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "stockings-test", req.Header.Get("X-Client"))
			require.Equal(t, "once", req.Header.Get("X-Per-Call"))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(mockQuoteObjectResponse)),
			}, nil
		}).
		Times(1)

	// Assert: the second request still carries the client header only
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "stockings-test", req.Header.Get("X-Client"))
			require.Empty(t, req.Header.Get("X-Per-Call"))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(mockQuoteObjectResponse)),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Yahoo Finance client
	client, err := yahoo.New(
		yahoo.WithHTTPClient(httpClient),
		yahoo.WithHeader(http.Header{"X-Client": []string{"stockings-test"}}),
	)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: one call with an extra header, then one without
	_, err = client.Quote(t.Context(), "YHOO", yahoo.WithHeader(http.Header{"X-Per-Call": []string{"once"}}))
	require.NoError(t, err)
	_, err = client.Quote(t.Context(), "YHOO")
	require.NoError(t, err)
}

func TestClient_MinIntervalSpacesRequests(t *testing.T) {
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
				Body:       io.NopCloser(strings.NewReader(mockQuoteObjectResponse)),
			}, nil
		}).
		Times(2)

	// Arrange: setup a client that spaces requests 50ms apart
	client, err := yahoo.New(
		yahoo.WithHTTPClient(httpClient),
		yahoo.WithMinInterval(50*time.Millisecond),
	)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: two back-to-back lookups for different symbols
	start := time.Now()
	_, err = client.Quote(t.Context(), "YHOO")
	require.NoError(t, err)
	_, err = client.Quote(t.Context(), "GOOG")
	require.NoError(t, err)

	// Assert: the second lookup had to wait for its slot
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestClient_MinIntervalHonorsContext(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: only the first lookup reaches the wire
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(mockQuoteObjectResponse)),
			}, nil
		}).
		Times(1)

	// Arrange: setup a client whose second slot is an hour away
	client, err := yahoo.New(
		yahoo.WithHTTPClient(httpClient),
		yahoo.WithMinInterval(time.Hour),
	)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: the first lookup takes the free slot
	_, err = client.Quote(t.Context(), "YHOO")
	require.NoError(t, err)

	// Act: the second gives up when its context expires
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Quote(ctx, "GOOG")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_CoalescesIdenticalRequests(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: two concurrent identical lookups reach the wire once
	release := make(chan struct{})
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			<-release

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(mockQuoteObjectResponse)),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Yahoo Finance client
	client, err := yahoo.New(yahoo.WithHTTPClient(httpClient))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: issue the same lookup twice in parallel
	results := make(chan error, 2)
	for range 2 {
		go func() {
			_, err := client.Quote(t.Context(), "YHOO")
			results <- err
		}()
	}

	// Let both lookups get in flight before the response is released.
	time.Sleep(100 * time.Millisecond)
	close(release)

	// Assert: both lookups share the single response
	require.NoError(t, <-results)
	require.NoError(t, <-results)
}
