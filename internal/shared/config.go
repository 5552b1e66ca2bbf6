package shared

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	DataFile       string
	TCPAddr        string
	UDPAddr        string
	AdminAddr      string
	UDPChunkSize   int
	UDPSendRPS     int
	Workers        int
	TCPIdleTimeout time.Duration
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	MySQLDSN       string
	ExportWorkers  int
	ExportBatch    int
}

const DefaultDataFile = "Regione-Piemonte---Elenco-delle-strutture-ricettive.csv"

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		DataFile:       env("DATA_FILE", DefaultDataFile),
		TCPAddr:        env("TCP_ADDR", ":1050"),
		UDPAddr:        env("UDP_ADDR", ":3030"),
		AdminAddr:      os.Getenv("ADMIN_ADDR"),
		UDPChunkSize:   atoi("UDP_CHUNK_SIZE", 1024),
		UDPSendRPS:     atoi("UDP_SEND_RPS", 0),
		Workers:        atoi("WORKERS", 256),
		TCPIdleTimeout: time.Duration(atoi("TCP_IDLE_TIMEOUT_SECONDS", 0)) * time.Second,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/lodging?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		ExportWorkers:  atoi("EXPORT_WORKERS", 4),
		ExportBatch:    atoi("EXPORT_BATCH", 200),
	}
	if _, ok := os.LookupEnv("ADMIN_ADDR"); !ok {
		c.AdminAddr = ":9100"
	}
	return c
}

// ApplyArgs applies the positional startup arguments:
// [0] data file, [1] TCP port, [2] UDP port. Missing ones keep the env value.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) >= 1 && args[0] != "" {
		c.DataFile = args[0]
	}
	if len(args) >= 2 {
		addr, err := portAddr(c.TCPAddr, args[1])
		if err != nil {
			return fmt.Errorf("tcp port: %w", err)
		}
		c.TCPAddr = addr
	}
	if len(args) >= 3 {
		addr, err := portAddr(c.UDPAddr, args[2])
		if err != nil {
			return fmt.Errorf("udp port: %w", err)
		}
		c.UDPAddr = addr
	}
	return nil
}

// portAddr keeps the host part of base and swaps in port.
func portAddr(base, port string) (string, error) {
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return "", fmt.Errorf("invalid port %q", port)
	}
	host, _, err := net.SplitHostPort(base)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, strconv.Itoa(n)), nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
