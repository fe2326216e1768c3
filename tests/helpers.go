package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const httpAddr = "localhost:8089"

var httpClient = &http.Client{
	Transport: otelhttp.NewTransport(http.DefaultTransport),
	Timeout:   10 * time.Second,
}

type messageResponse struct {
	Message string `json:"message"`
}

type eventResponse struct {
	Message string         `json:"message"`
	Event   entities.Event `json:"event"`
}

type bookingResponse struct {
	Message string           `json:"message"`
	Booking entities.Booking `json:"booking"`
}

func sendRequest(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("http://%s%s", httpAddr, path), bytes.NewBuffer(payload))
	require.NoError(t, err)

	req.Header.Set("Correlation-ID", shortuuid.New())
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func addEvent(t *testing.T, totalSeats int) entities.Event {
	t.Helper()

	var resp eventResponse
	status := sendRequest(t, http.MethodPost, "/events", map[string]any{
		"name":        "Concert " + shortuuid.New(),
		"date":        time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second),
		"venue":       "Arena",
		"total_seats": totalSeats,
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Event added successfully.", resp.Message)

	return resp.Event
}

func getEvent(t *testing.T, eventID uuid.UUID) entities.Event {
	t.Helper()

	var event entities.Event
	status := sendRequest(t, http.MethodGet, "/events/"+eventID.String(), nil, &event)
	require.Equal(t, http.StatusOK, status)

	return event
}

func assertOpsBookingStatus(t *testing.T, bookingID uuid.UUID, expectedStatus string) {
	t.Helper()

	assert.EventuallyWithT(
		t,
		func(collectT *assert.CollectT) {
			resp, err := httpClient.Get(fmt.Sprintf("http://%s/ops/bookings/%s", httpAddr, bookingID))
			if !assert.NoError(collectT, err) {
				return
			}
			defer resp.Body.Close()

			if !assert.Equal(collectT, http.StatusOK, resp.StatusCode) {
				return
			}

			var booking entities.OpsBooking
			if !assert.NoError(collectT, json.NewDecoder(resp.Body).Decode(&booking)) {
				return
			}

			assert.Equal(collectT, expectedStatus, booking.Status)
		},
		10*time.Second,
		100*time.Millisecond,
	)
}

func waitForHttpServer(t *testing.T) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := httpClient.Get(fmt.Sprintf("http://%s/health", httpAddr))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode)
		},
		time.Second*10,
		time.Millisecond*50,
	)
}
