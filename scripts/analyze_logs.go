package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Scans today's log files for wallet and payment activity. Run from the
// repository root so ./logs resolves to the server's log directory.

type LogStats struct {
	TotalErrors        int
	TopupsCompleted    int
	ChaptersUnlocked   int
	IPNSignatureFails  int
	IPNReplays         int
	InsufficientFunds  int
	GatewayFailures    int
	OrderActivity      map[string]int
	ErrorPatterns      map[string]int
}

func main() {
	today := time.Now().Format("2006-01-02")
	logDir := "./logs"

	stats := &LogStats{
		OrderActivity: make(map[string]int),
		ErrorPatterns: make(map[string]int),
	}

	analyzeErrorLogs(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)
	analyzeInfoLogs(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)

	printReport(stats)
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		if strings.Contains(line, "IPN signature mismatch") {
			stats.IPNSignatureFails++
			extractOrderActivity(line, stats)
		}
		if strings.Contains(line, "Insufficient balance") {
			stats.InsufficientFunds++
		}
		if strings.Contains(line, "gateway request failed") ||
			strings.Contains(line, "Failed to create top-up intent") {
			stats.GatewayFailures++
		}

		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "completed, credited") {
			stats.TopupsCompleted++
			extractOrderActivity(line, stats)
		}
		if strings.Contains(line, "unlocked by user") {
			stats.ChaptersUnlocked++
		}
		if strings.Contains(line, "IPN replay for completed order") {
			stats.IPNReplays++
			extractOrderActivity(line, stats)
		}
	}
}

func extractOrderActivity(line string, stats *LogStats) {
	orderRegex := regexp.MustCompile(`ORDER_\d+_[a-z0-9]+`)
	if order := orderRegex.FindString(line); order != "" {
		stats.OrderActivity[order]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	parts := strings.Split(line, ":")
	if len(parts) > 1 {
		errorMsg := strings.TrimSpace(parts[1])
		stats.ErrorPatterns[errorMsg]++
	}
}

func printReport(stats *LogStats) {
	fmt.Println("\n=== Wallet Log Analysis Report ===")
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Payment Activity:")
	fmt.Printf("   Completed Top-ups: %d\n", stats.TopupsCompleted)
	fmt.Printf("   Chapters Unlocked: %d\n", stats.ChaptersUnlocked)
	fmt.Printf("   IPN Replays (idempotent skips): %d\n", stats.IPNReplays)

	fmt.Println("\n2. Security Incidents:")
	fmt.Printf("   IPN Signature Failures: %d\n", stats.IPNSignatureFails)

	fmt.Println("\n3. Error Statistics:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)
	fmt.Printf("   Insufficient Balance Rejections: %d\n", stats.InsufficientFunds)
	fmt.Printf("   Gateway Failures: %d\n", stats.GatewayFailures)

	fmt.Println("\n4. Most Active Orders:")
	printTopOrders(stats.OrderActivity, 5)

	fmt.Println("\n5. Most Common Errors:")
	printTopErrors(stats.ErrorPatterns, 5)
}

func printTopOrders(orders map[string]int, limit int) {
	type orderActivity struct {
		order string
		count int
	}

	var activities []orderActivity
	for order, count := range orders {
		activities = append(activities, orderActivity{order, count})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].count > activities[j].count
	})

	for i, activity := range activities {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d events\n", activity.order, activity.count)
	}
}

func printTopErrors(errors map[string]int, limit int) {
	type errorCount struct {
		error string
		count int
	}

	var errorList []errorCount
	for err, count := range errors {
		errorList = append(errorList, errorCount{err, count})
	}

	sort.Slice(errorList, func(i, j int) bool {
		return errorList[i].count > errorList[j].count
	})

	for i, err := range errorList {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d occurrences\n", err.error, err.count)
	}
}
