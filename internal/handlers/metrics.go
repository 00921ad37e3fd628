package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/arbor-dev/arbor/internal/config"
	"github.com/arbor-dev/arbor/internal/metrika"
	"github.com/arbor-dev/arbor/internal/types"
	"github.com/gin-gonic/gin"
)

const statsWindowDays = 7

type MetricsHandler struct {
	Client *metrika.Client
}

func NewMetricsHandler(cfg *config.Config) *MetricsHandler {
	if cfg.Metrika.Token == "" {
		return &MetricsHandler{}
	}

	return &MetricsHandler{
		Client: metrika.NewClient(cfg.Metrika.Token, cfg.Metrika.CounterID),
	}
}

// Stats proxies counter totals and goal reaches for the trailing 7-day
// window. A goals fetch failure degrades the response to totals-only.
func (h *MetricsHandler) Stats(ctx *gin.Context) {
	if h.Client == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Metrika token not configured"})
		return
	}

	now := time.Now()
	dateEnd := now.Format("2006-01-02")
	dateStart := now.AddDate(0, 0, -statsWindowDays).Format("2006-01-02")

	totals, err := h.Client.FetchTotals(ctx.Request.Context(), dateStart, dateEnd)

	if err != nil {
		var apiErr *metrika.APIError

		if errors.As(err, &apiErr) {
			ctx.JSON(apiErr.StatusCode, gin.H{
				"error":       "Metrika API error",
				"details":     apiErr.Body,
				"status_code": apiErr.StatusCode,
			})
			return
		}

		log.Printf("Failed to fetch Metrika totals: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	goals, err := h.Client.FetchGoals(ctx.Request.Context(), dateStart, dateEnd)

	if err != nil {
		log.Printf("Error fetching goals: %v", err)
		goals = map[string]float64{}
	}

	ctx.JSON(http.StatusOK, types.MetrikaStatsResponse{
		Visits:    totals.Visits,
		Users:     totals.Users,
		Pageviews: totals.Pageviews,
		Period: types.MetrikaPeriod{
			Start: dateStart,
			End:   dateEnd,
		},
		Goals:     goals,
		Timestamp: now.Format(time.RFC3339),
	})
}
