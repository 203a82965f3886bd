package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	Locations       []string
	ConcurrentUsers int
	RequestsPerUser int
	Timeout         time.Duration
	TestDuration    time.Duration
	RampUpDuration  time.Duration
	ThinkTime       time.Duration
}

// LoadTestResult holds the result of a single request
type LoadTestResult struct {
	UserID     int
	RequestID  int
	Location   string
	StatusCode int
	Duration   time.Duration
	Success    bool
	CacheHit   bool
	Error      error
	Timestamp  time.Time
}

// LoadTestSummary holds the summary of load test results
type LoadTestSummary struct {
	TotalRequests       int
	SuccessfulRequests  int
	FailedRequests      int
	CacheHits           int
	TotalDuration       time.Duration
	AverageResponseTime time.Duration
	MinResponseTime     time.Duration
	MaxResponseTime     time.Duration
	RequestsPerSecond   float64
	ErrorRate           float64
	CacheHitRatio       float64
	ResponseTime95th    time.Duration
	ResponseTime99th    time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var config LoadTestConfig
	var locations string

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Concurrent load generator for the prayer-times endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Locations = splitLocations(locations)
			if len(config.Locations) == 0 {
				return fmt.Errorf("at least one location is required")
			}
			if config.ConcurrentUsers <= 0 {
				return fmt.Errorf("users must be positive")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Starting load test...\n")
			fmt.Fprintf(out, "Base URL: %s\n", config.BaseURL)
			fmt.Fprintf(out, "Locations: %s\n", strings.Join(config.Locations, " | "))
			fmt.Fprintf(out, "Concurrent Users: %d\n", config.ConcurrentUsers)
			fmt.Fprintf(out, "Requests per User: %d\n", config.RequestsPerUser)
			fmt.Fprintf(out, "Timeout: %v\n", config.Timeout)
			fmt.Fprintf(out, "Ramp-up Duration: %v\n", config.RampUpDuration)
			fmt.Fprintf(out, "Think Time: %v\n", config.ThinkTime)
			fmt.Fprintf(out, "Test Duration: %v\n\n", config.TestDuration)

			printSummary(out, runLoadTest(cmd.Context(), config))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&config.BaseURL, "url", "http://localhost:8080", "Base URL of the prayer-times service")
	f.StringVar(&locations, "locations", "London,New York,Mecca,Jakarta,Cairo", "Comma-separated locations to cycle through")
	f.IntVar(&config.ConcurrentUsers, "users", 10, "Number of concurrent users")
	f.IntVar(&config.RequestsPerUser, "requests", 100, "Number of requests per user")
	f.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Request timeout")
	f.DurationVar(&config.TestDuration, "duration", 0, "Test duration (0 = run until all requests complete)")
	f.DurationVar(&config.RampUpDuration, "rampup", 5*time.Second, "Ramp-up duration")
	f.DurationVar(&config.ThinkTime, "think", 100*time.Millisecond, "Think time between requests")

	return cmd
}

func splitLocations(s string) []string {
	var locations []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			locations = append(locations, part)
		}
	}
	return locations
}

// locationURL builds the path form of the endpoint for location
func locationURL(baseURL, location string) string {
	return strings.TrimRight(baseURL, "/") + "/prayer-times/" + url.PathEscape(location)
}

func runLoadTest(parent context.Context, config LoadTestConfig) LoadTestSummary {
	results := make(chan LoadTestResult, config.ConcurrentUsers*config.RequestsPerUser)

	client := &http.Client{
		Timeout: config.Timeout,
	}

	startTime := time.Now()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	if config.TestDuration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, config.TestDuration)
		defer stop()
	}

	var wg sync.WaitGroup
	rampUpDelay := config.RampUpDuration / time.Duration(config.ConcurrentUsers)

	for userID := 0; userID < config.ConcurrentUsers; userID++ {
		wg.Add(1)
		go func(uid int) {
			defer wg.Done()

			time.Sleep(time.Duration(uid) * rampUpDelay)

			for reqID := 0; reqID < config.RequestsPerUser; reqID++ {
				select {
				case <-ctx.Done():
					return
				default:
				}

				location := config.Locations[(uid+reqID)%len(config.Locations)]
				results <- makeRequest(ctx, client, location, locationURL(config.BaseURL, location), uid, reqID)

				if config.ThinkTime > 0 {
					time.Sleep(config.ThinkTime)
				}
			}
		}(userID)
	}

	wg.Wait()
	close(results)

	return processResults(results, time.Since(startTime))
}

func makeRequest(ctx context.Context, client *http.Client, location, target string, userID, requestID int) LoadTestResult {
	start := time.Now()
	result := LoadTestResult{
		UserID:    userID,
		RequestID: requestID,
		Location:  location,
		Timestamp: start,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		result.Error = err
		return result
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = err
		return result
	}
	defer resp.Body.Close()

	// Read response body to ensure complete request
	io.Copy(io.Discard, resp.Body)
	result.Duration = time.Since(start)
	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	result.CacheHit = resp.Header.Get("X-Cache") == "HIT"

	return result
}

func processResults(results <-chan LoadTestResult, totalDuration time.Duration) LoadTestSummary {
	var summary LoadTestSummary
	var responseTimes []time.Duration

	summary.TotalDuration = totalDuration

	for result := range results {
		summary.TotalRequests++
		responseTimes = append(responseTimes, result.Duration)

		if result.Success {
			summary.SuccessfulRequests++
		} else {
			summary.FailedRequests++
		}
		if result.CacheHit {
			summary.CacheHits++
		}
	}

	if summary.TotalRequests == 0 {
		return summary
	}

	summary.ErrorRate = float64(summary.FailedRequests) / float64(summary.TotalRequests) * 100
	summary.CacheHitRatio = float64(summary.CacheHits) / float64(summary.TotalRequests) * 100
	if totalDuration > 0 {
		summary.RequestsPerSecond = float64(summary.TotalRequests) / totalDuration.Seconds()
	}

	sort.Slice(responseTimes, func(i, j int) bool { return responseTimes[i] < responseTimes[j] })

	var totalResponseTime time.Duration
	for _, rt := range responseTimes {
		totalResponseTime += rt
	}
	summary.MinResponseTime = responseTimes[0]
	summary.MaxResponseTime = responseTimes[len(responseTimes)-1]
	summary.AverageResponseTime = totalResponseTime / time.Duration(len(responseTimes))
	summary.ResponseTime95th = calculatePercentile(responseTimes, 95)
	summary.ResponseTime99th = calculatePercentile(responseTimes, 99)

	return summary
}

// calculatePercentile expects sorted input
func calculatePercentile(sorted []time.Duration, percentile int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * float64(percentile) / 100.0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}

func printSummary(out io.Writer, summary LoadTestSummary) {
	fmt.Fprintln(out, "=== Load Test Results ===")
	if summary.TotalRequests == 0 {
		fmt.Fprintln(out, "No requests completed")
		return
	}
	fmt.Fprintf(out, "Total Requests: %d\n", summary.TotalRequests)
	fmt.Fprintf(out, "Successful Requests: %d (%.2f%%)\n", summary.SuccessfulRequests,
		float64(summary.SuccessfulRequests)/float64(summary.TotalRequests)*100)
	fmt.Fprintf(out, "Failed Requests: %d (%.2f%%)\n", summary.FailedRequests, summary.ErrorRate)
	fmt.Fprintf(out, "Cache Hits: %d (%.2f%%)\n", summary.CacheHits, summary.CacheHitRatio)
	fmt.Fprintf(out, "Total Duration: %v\n", summary.TotalDuration)
	fmt.Fprintf(out, "Requests per Second: %.2f\n", summary.RequestsPerSecond)
	fmt.Fprintf(out, "Average Response Time: %v\n", summary.AverageResponseTime)
	fmt.Fprintf(out, "Min Response Time: %v\n", summary.MinResponseTime)
	fmt.Fprintf(out, "Max Response Time: %v\n", summary.MaxResponseTime)
	fmt.Fprintf(out, "95th Percentile Response Time: %v\n", summary.ResponseTime95th)
	fmt.Fprintf(out, "99th Percentile Response Time: %v\n", summary.ResponseTime99th)

	fmt.Fprintln(out, "\n=== Performance Assessment ===")
	if summary.ErrorRate > 5.0 {
		fmt.Fprintf(out, "High error rate: %.2f%% (target: < 5%%)\n", summary.ErrorRate)
	} else {
		fmt.Fprintf(out, "Error rate: %.2f%% (good)\n", summary.ErrorRate)
	}

	if summary.AverageResponseTime > 2*time.Second {
		fmt.Fprintf(out, "High average response time: %v (target: < 2s)\n", summary.AverageResponseTime)
	} else {
		fmt.Fprintf(out, "Average response time: %v (good)\n", summary.AverageResponseTime)
	}

	if summary.CacheHitRatio < 50 {
		fmt.Fprintf(out, "Low cache hit ratio: %.2f%% (target: > 50%%)\n", summary.CacheHitRatio)
	} else {
		fmt.Fprintf(out, "Cache hit ratio: %.2f%% (good)\n", summary.CacheHitRatio)
	}
}
