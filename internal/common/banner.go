package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	version := GetVersion()
	build := GetBuild()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)

	lineColor := banner.ColorGreen
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		`    _    ____ __  __    _    ____  _  __`,
		`   / \  / ___|  \/  |  / \  |  _ \| |/ /`,
		`  / _ \| |  _| |\/| | / _ \ | |_) | ' / `,
		` / ___ \ |_| | |  | |/ ___ \|  _ <| . \ `,
		`/_/   \_\____|_|  |_/_/   \_\_| \_\_|\_\`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  version   %s (build %s)\n", version, build)
	fmt.Fprintf(os.Stderr, "  env       %s\n", config.Environment)
	fmt.Fprintf(os.Stderr, "  server    %s\n", serviceURL)
	fmt.Fprintf(os.Stderr, "  downloads %s\n", config.Storage.Downloads.Path)
	fmt.Fprintf(os.Stderr, "  metadata  %s\n", config.Catalog.Path)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	logger.Info().
		Str("version", version).
		Str("environment", config.Environment).
		Msg("Agmark starting")
}
