package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/solstice035/health-analytics/internal/analytics"
	"github.com/solstice035/health-analytics/internal/dashboard"
	"github.com/solstice035/health-analytics/internal/health"
	"github.com/solstice035/health-analytics/internal/logging"
)

// registerResources registers all MCP resources for the server
func (s *Server) registerResources() {
	// Static resource: 30-day summary
	s.mcp.AddResource(&mcp.Resource{
		URI:         "health://summary/recent",
		Name:        "recent_summary",
		Description: "Aggregate health statistics for the last 30 days including totals, averages, and goal achievement",
		MIMEType:    "application/json",
	}, s.readRecentSummary)

	// Static resource: current health score
	s.mcp.AddResource(&mcp.Resource{
		URI:         "health://score/current",
		Name:        "current_health_score",
		Description: "Composite health score (0-100) computed from the last 7 days of activity and recovery data",
		MIMEType:    "application/json",
	}, s.readCurrentScore)

	// Static resource: personal records
	s.mcp.AddResource(&mcp.Resource{
		URI:         "health://records/personal",
		Name:        "personal_records",
		Description: "Personal best values across health metrics from the last year",
		MIMEType:    "application/json",
	}, s.readPersonalRecords)

	// Static resource: recent insights
	s.mcp.AddResource(&mcp.Resource{
		URI:         "health://insights/recent",
		Name:        "recent_insights",
		Description: "Personalized insight cards generated from the last 30 days of health data",
		MIMEType:    "application/json",
	}, s.readRecentInsights)

	// Dynamic resource template: per-day aggregate
	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "health://day/{date}",
		Name:        "daily_aggregate",
		Description: "Full aggregated metrics for a single calendar day (date in YYYY-MM-DD format)",
		MIMEType:    "application/json",
	}, s.readDay)

	// Dynamic resource template: generated dashboard artifacts
	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "health://artifact/{name}",
		Name:        "dashboard_artifact",
		Description: "A generated dashboard artifact by file name, e.g. daily_trends.json or deep_analysis.json",
		MIMEType:    "application/json",
	}, s.readArtifact)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, NewInternalErrorWithCause("failed to marshal resource", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonData),
			},
		},
	}, nil
}

func errorResource(uri, msg string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     fmt.Sprintf(`{"error": %q}`, msg),
			},
		},
	}
}

func (s *Server) readRecentSummary(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	logging.Info("MCP resource read", "resource", "recent_summary")

	daily, err := s.provider.LoadDaily(ctx, 30)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return errorResource("health://summary/recent", "No health data found for the last 30 days"), nil
		}
		logging.Error("readRecentSummary failed", "error", err)
		return nil, NewInternalErrorWithCause("failed to load daily data", err)
	}
	return jsonResource("health://summary/recent", dashboard.BuildSummaryStats(daily, s.goals))
}

func (s *Server) readCurrentScore(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	logging.Info("MCP resource read", "resource", "current_health_score")

	daily, err := s.provider.LoadDaily(ctx, 7)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return errorResource("health://score/current", "No health data found for the last 7 days"), nil
		}
		logging.Error("readCurrentScore failed", "error", err)
		return nil, NewInternalErrorWithCause("failed to load daily data", err)
	}
	return jsonResource("health://score/current", dashboard.BuildHealthScore(daily, s.goals))
}

func (s *Server) readPersonalRecords(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	logging.Info("MCP resource read", "resource", "personal_records")

	daily, err := s.provider.LoadDaily(ctx, 365)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return errorResource("health://records/personal", "No health data found for the last year"), nil
		}
		logging.Error("readPersonalRecords failed", "error", err)
		return nil, NewInternalErrorWithCause("failed to load daily data", err)
	}
	return jsonResource("health://records/personal", analytics.BuildRecords(daily))
}

func (s *Server) readRecentInsights(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	logging.Info("MCP resource read", "resource", "recent_insights")

	daily, err := s.provider.LoadDaily(ctx, 30)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return errorResource("health://insights/recent", "No health data found for the last 30 days"), nil
		}
		logging.Error("readRecentInsights failed", "error", err)
		return nil, NewInternalErrorWithCause("failed to load daily data", err)
	}
	return jsonResource("health://insights/recent", dashboard.BuildInsights(daily, s.goals))
}

// readDay handles the health://day/{date} resource template
func (s *Server) readDay(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	date := strings.TrimPrefix(uri, "health://day/")
	logging.Info("MCP resource read", "resource", "daily_aggregate", "date", date)

	if date == "" || date == uri {
		return errorResource(uri, "Invalid URI, expected health://day/YYYY-MM-DD"), nil
	}

	day, err := s.provider.LoadDay(ctx, date)
	if err != nil {
		if errors.Is(err, health.ErrNoData) {
			return errorResource(uri, fmt.Sprintf("No health data found for %s", date)), nil
		}
		logging.Error("readDay failed", "date", date, "error", err)
		return nil, NewInternalErrorWithCause("failed to load day", err)
	}
	return jsonResource(uri, day)
}

// readArtifact handles the health://artifact/{name} resource template,
// serving generated JSON files from the dashboard data directory.
func (s *Server) readArtifact(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	name := strings.TrimPrefix(uri, "health://artifact/")
	logging.Info("MCP resource read", "resource", "dashboard_artifact", "name", name)

	if name == "" || name == uri || name != filepath.Base(name) || filepath.Ext(name) != ".json" {
		return errorResource(uri, "Invalid artifact name, expected a .json file name such as daily_trends.json"), nil
	}

	raw, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errorResource(uri, fmt.Sprintf("Artifact %s has not been generated yet", name)), nil
		}
		logging.Error("readArtifact failed", "name", name, "error", err)
		return nil, NewInternalErrorWithCause("failed to read artifact", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(raw),
			},
		},
	}, nil
}
