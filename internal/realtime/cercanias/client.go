package cercanias

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/protobuf/proto"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
)

// Client fetches the Renfe Cercanías GTFS-RT feeds.
type Client struct {
	positionsURL string
	delaysURL    string
	client       *http.Client
}

// NewClient creates a feed client for the given vehicle-positions and
// trip-updates endpoints.
func NewClient(positionsURL, delaysURL string) *Client {
	return &Client{
		positionsURL: positionsURL,
		delaysURL:    delaysURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchPositions fetches and parses the vehicle positions feed.
func (c *Client) FetchPositions(ctx context.Context) ([]PositionReport, error) {
	feed, err := c.fetchFeed(ctx, c.positionsURL)
	if err != nil {
		return nil, err
	}

	var reports []PositionReport
	for _, entity := range feed.Entity {
		vehicle := entity.Vehicle
		if vehicle == nil {
			continue
		}
		if vehicle.Trip == nil || vehicle.Trip.TripId == nil {
			continue
		}
		pos := vehicle.Position
		if pos == nil || pos.Latitude == nil || pos.Longitude == nil {
			continue
		}

		reports = append(reports, PositionReport{
			TripID:    *vehicle.Trip.TripId,
			Latitude:  float64(*pos.Latitude),
			Longitude: float64(*pos.Longitude),
		})
	}

	return reports, nil
}

// FetchDelays fetches and parses the trip updates feed.
func (c *Client) FetchDelays(ctx context.Context) ([]DelayReport, error) {
	feed, err := c.fetchFeed(ctx, c.delaysURL)
	if err != nil {
		return nil, err
	}

	var reports []DelayReport
	for _, entity := range feed.Entity {
		update := entity.TripUpdate
		if update == nil {
			continue
		}
		if update.Trip == nil || update.Trip.TripId == nil {
			continue
		}

		reports = append(reports, DelayReport{
			TripID:       *update.Trip.TripId,
			DelaySeconds: extractDelay(update),
		})
	}

	return reports, nil
}

// extractDelay picks the delay for a trip update. Renfe usually omits the
// trip-level delay and only fills per-stop arrival/departure delays, so
// fall back to the first stop time update that carries one.
func extractDelay(update *gtfs.TripUpdate) int {
	if update.Delay != nil {
		return int(*update.Delay)
	}

	for _, stu := range update.StopTimeUpdate {
		if stu.Arrival != nil && stu.Arrival.Delay != nil {
			return int(*stu.Arrival.Delay)
		}
		if stu.Departure != nil && stu.Departure.Delay != nil {
			return int(*stu.Departure.Delay)
		}
	}

	return 0
}

// fetchFeed fetches a GTFS-RT feed from the given URL.
func (c *Client) fetchFeed(ctx context.Context, url string) (*gtfs.FeedMessage, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feed); err != nil {
		return nil, fmt.Errorf("failed to parse protobuf: %w", err)
	}

	return feed, nil
}
