package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/hermes/internal/dispatch"
	"github.com/UnknownOlympus/hermes/internal/models"
	"github.com/gin-gonic/gin"
)

// Finder is the dispatch operation served by the handler.
type Finder interface {
	FindNearest(ctx context.Context, riderID string, in dispatch.Input) ([]models.RankedCandidate, error)
}

type nearestReq struct {
	PickupLat  *float64 `json:"pickup_lat"`
	PickupLng  *float64 `json:"pickup_lng"`
	DropoffLat *float64 `json:"dropoff_lat"`
	DropoffLng *float64 `json:"dropoff_lng"`
}

type driverResp struct {
	VehicleID              string   `json:"vehicle_id"`
	UtsID                  string   `json:"uts_id"`
	ETAToPickupSeconds     *float64 `json:"eta_to_pickup_seconds"`
	DistanceToPickupMeters *float64 `json:"distance_to_pickup_meters"`
	TripFare               float64  `json:"trip_fare"`
	TripDistanceMeters     float64  `json:"trip_distance_meters"`
}

type nearestResp struct {
	Drivers []driverResp `json:"drivers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	log    *slog.Logger
	finder Finder
}

func NewHandler(log *slog.Logger, finder Finder) *Handler {
	return &Handler{log: log, finder: finder}
}

// Nearest handles POST /v1/drivers/nearest.
func (h *Handler) Nearest(c *gin.Context) {
	var req nearestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.DebugContext(c.Request.Context(), "Malformed request body", "error", err)
		// A body that is not JSON or carries non-numeric coordinates counts as missing coordinates.
		req = nearestReq{}
	}

	ranked, err := h.finder.FindNearest(c.Request.Context(), c.GetString(riderIDKey), dispatch.Input{
		PickupLat:  req.PickupLat,
		PickupLng:  req.PickupLng,
		DropoffLat: req.DropoffLat,
		DropoffLng: req.DropoffLng,
	})
	if err != nil {
		h.writeDispatchError(c, err)
		return
	}

	resp := nearestResp{Drivers: make([]driverResp, 0, len(ranked))}
	for _, rc := range ranked {
		resp.Drivers = append(resp.Drivers, driverResp{
			VehicleID:              rc.VehicleID,
			UtsID:                  rc.ExternalReferenceID,
			ETAToPickupSeconds:     rc.ETASeconds,
			DistanceToPickupMeters: rc.DistanceMeters,
			TripFare:               rc.Fare.Rounded(),
			TripDistanceMeters:     rc.TripDistanceMeters,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) writeDispatchError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(c.Request.Context(), "Nearest drivers request failed", "status", status, "error", err)
	} else {
		h.log.InfoContext(c.Request.Context(), "Nearest drivers request rejected", "status", status, "error", err)
	}
	c.JSON(status, errorResponse{Error: msg})
}

// statusFor maps a dispatch error kind to an HTTP status and a client-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, dispatch.ErrInvalidRequest):
		return http.StatusBadRequest, "Missing coordinates"
	case errors.Is(err, dispatch.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, dispatch.ErrUnresolvableRoute):
		return http.StatusBadRequest, "Could not calculate trip distance"
	case errors.Is(err, dispatch.ErrConfiguration):
		return http.StatusInternalServerError, "Service misconfigured"
	case errors.Is(err, dispatch.ErrUpstream):
		return http.StatusBadGateway, "Failed to fetch nearest drivers"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
