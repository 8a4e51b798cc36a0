package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr      string
	RateLimit float64
	RateBurst int
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("EXAMRESULT_ADDR"),
		},
		&cli.FloatFlag{
			Name:        "rate-limit",
			Usage:       "Maximum /api/fetch-pdf requests per second (0 = unlimited)",
			Value:       0,
			Destination: &c.RateLimit,
			Sources:     cli.EnvVars("EXAMRESULT_RATE_LIMIT"),
		},
		&cli.IntFlag{
			Name:        "rate-burst",
			Usage:       "Burst size for --rate-limit",
			Value:       5,
			Destination: &c.RateBurst,
			Sources:     cli.EnvVars("EXAMRESULT_RATE_BURST"),
		},
	}
}
