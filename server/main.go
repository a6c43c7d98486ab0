// Copyright 2025 Reelscope, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// *****************************************************************************************************//
// Package main is the entry point for the short-form video analyzer server.
//
// This application sets up and runs a web server using the Gin framework. It
// provides a REST API for authenticating against the worksheet-backed user
// store, submitting short marketing videos for scene-by-scene AI analysis,
// polling run progress, and downloading the finished report as CSV or
// Markdown. The server is instrumented with OpenTelemetry for logging,
// tracing, and metrics.
//
// Functions:
//   - main: The entry point. Sets up the server, configures routes,
//     initializes services, and handles graceful shutdown.
//   - AuthRouter: Configures the login endpoint.
//   - AnalysisRouter: Configures the analysis submission, polling, report,
//     and export endpoints behind the session middleware.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/reelscope/shortform-analyzer/internal/core/model"
	"github.com/reelscope/shortform-analyzer/internal/core/services"
	"github.com/reelscope/shortform-analyzer/internal/export"
	"github.com/reelscope/shortform-analyzer/internal/quota"
	"github.com/reelscope/shortform-analyzer/internal/telemetry"
)

// contextUserKey is where the session middleware parks the resolved user.
const contextUserKey = "session_user"

// main is the primary entry point for the application.
func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()
	r.Use(otelgin.Middleware(config.Application.Name))
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		AuthRouter(apiV1)
		AnalysisRouter(apiV1)
	}

	addr := config.Server.Addr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		// Uploads are small (60 seconds of video) but mobile connections
		// are slow; give them room.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// AuthRouter sets up the authentication routes.
//
// This function defines the following endpoints:
//   - POST /login: Authenticates a username/password pair against the
//     worksheet store and returns a session token with the user's quota.
func AuthRouter(r *gin.RouterGroup) {
	r.POST("/login", func(c *gin.Context) {
		var body struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		user, err := state.quotaStore.Authenticate(c.Request.Context(), body.Username, body.Password)
		if err != nil {
			switch {
			case errors.Is(err, quota.ErrInvalidCredentials):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			default:
				// The store is unreachable: fail closed, nobody logs in.
				slog.Error("login failed against user store", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "the user store is unavailable"})
			}
			return
		}

		token := state.sessionService.Create(user)
		usage, limit := user.QuotaState()
		c.JSON(http.StatusOK, gin.H{
			"token":    token,
			"username": user.Username,
			"usage":    usage,
			"limit":    limit,
		})
	})
}

// sessionRequired resolves the bearer token and rejects the request when
// it is missing, unknown, or expired.
func sessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		user, err := state.sessionService.Resolve(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// sessionUser pulls the resolved user back out of the Gin context.
func sessionUser(c *gin.Context) *model.User {
	return c.MustGet(contextUserKey).(*model.User)
}

// AnalysisRouter sets up the analysis routes, all behind the session
// middleware.
//
// This function defines the following endpoints:
//   - POST /analyses: Accepts a multipart video upload plus optional
//     detector parameters and starts an analysis run.
//   - GET /analyses/:id: Returns the run's state and progress.
//   - GET /analyses/:id/report: Returns the finished report as JSON.
//   - GET /analyses/:id/export/csv: Downloads the scene table as CSV.
//   - GET /analyses/:id/export/markdown: Downloads the report as Markdown.
func AnalysisRouter(r *gin.RouterGroup) {
	analyses := r.Group("/analyses")
	analyses.Use(sessionRequired())
	{
		analyses.POST("", func(c *gin.Context) {
			user := sessionUser(c)
			limits := state.config.Limits

			fileHeader, err := c.FormFile("video")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "a 'video' file field is required"})
				return
			}
			f, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "the upload could not be read"})
				return
			}
			defer func() { _ = f.Close() }()
			upload, err := io.ReadAll(f)
			if err != nil || len(upload) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "the upload could not be read"})
				return
			}

			// Out-of-range detector parameters are clamped, not rejected;
			// the effective values are echoed back in the response.
			threshold := clampFloat(
				parseFloatDefault(c.PostForm("threshold"), limits.DefaultThreshold),
				limits.MinThreshold, limits.MaxThreshold)
			minSceneLen := clampInt(
				parseIntDefault(c.PostForm("min_scene_len"), limits.DefaultMinSceneLen),
				limits.MinMinSceneLen, limits.MaxMinSceneLen)

			run, err := state.runService.Start(user, upload, services.RunParams{
				Threshold:   threshold,
				MinSceneLen: minSceneLen,
			})
			if err != nil {
				if errors.Is(err, services.ErrQuotaExhausted) {
					c.JSON(http.StatusForbidden, gin.H{"error": "usage limit reached"})
					return
				}
				slog.Error("failed to start analysis run", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start the analysis"})
				return
			}

			c.JSON(http.StatusAccepted, gin.H{
				"run_id":        run.ID,
				"threshold":     threshold,
				"min_scene_len": minSceneLen,
			})
		})

		analyses.GET("/:id", func(c *gin.Context) {
			run, ok := ownedRun(c)
			if !ok {
				return
			}
			out := gin.H{
				"run_id":   run.ID,
				"state":    run.State,
				"progress": run.Progress,
			}
			if run.Error != "" {
				out["error"] = run.Error
			}
			c.JSON(http.StatusOK, out)
		})

		analyses.GET("/:id/report", func(c *gin.Context) {
			run, ok := completedRun(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, run.Report)
		})

		analyses.GET("/:id/export/csv", func(c *gin.Context) {
			run, ok := completedRun(c)
			if !ok {
				return
			}
			out, err := export.ToCSV(run.Report)
			if err != nil {
				slog.Error("csv export failed", "run_id", run.ID, "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.Header("Content-Disposition", `attachment; filename="analysis.csv"`)
			c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
		})

		analyses.GET("/:id/export/markdown", func(c *gin.Context) {
			run, ok := completedRun(c)
			if !ok {
				return
			}
			c.Header("Content-Disposition", `attachment; filename="analysis.md"`)
			c.Data(http.StatusOK, "text/markdown; charset=utf-8", export.ToMarkdown(run.Report))
		})
	}
}

// ownedRun fetches the run from the path ID and enforces that it belongs
// to the session user. Writes the error response itself on failure.
func ownedRun(c *gin.Context) (*services.Run, bool) {
	run, err := state.runService.Get(c.Param("id"))
	if err != nil || run.Username != sessionUser(c).Username {
		// An existing run owned by someone else reads as not found.
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return nil, false
	}
	return run, true
}

// completedRun is ownedRun plus the requirement that the report exists.
func completedRun(c *gin.Context) (*services.Run, bool) {
	run, ok := ownedRun(c)
	if !ok {
		return nil, false
	}
	switch run.State {
	case services.RunStateComplete:
		return run, true
	case services.RunStateFailed:
		c.JSON(http.StatusConflict, gin.H{"error": run.Error})
	default:
		c.JSON(http.StatusConflict, gin.H{"error": "the analysis is still running", "progress": run.Progress})
	}
	return nil, false
}

func parseFloatDefault(in string, def float64) float64 {
	if in == "" {
		return def
	}
	v, err := strconv.ParseFloat(in, 64)
	if err != nil {
		return def
	}
	return v
}

func parseIntDefault(in string, def int) int {
	if in == "" {
		return def
	}
	v, err := strconv.Atoi(in)
	if err != nil {
		return def
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
