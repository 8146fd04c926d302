// Command upstream_probe checks that the registrar system endpoints the
// portal depends on are reachable and answering within budget. Run it before
// a deploy or when the portal starts serving fallback reference data.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type probe struct {
	Target   target
	Status   int
	OK       bool
	Error    error
	Duration time.Duration
}

func main() {
	var (
		base        string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:3000", "Registrar system base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "upstream_probe", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		probes   []probe
		breaking int
		degraded int
	)

	for _, t := range targets {
		p := probeTarget(client, base, t)
		if !p.OK {
			if t.Critical {
				breaking++
			} else {
				degraded++
			}
		}
		probes = append(probes, p)
	}

	printReport(probes)

	fmt.Printf("Critical failures: %d, Degraded: %d\n", breaking, degraded)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func probeTarget(client *http.Client, base string, tgt target) probe {
	p := probe{Target: tgt}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		p.Error = err
		return p
	}

	start := time.Now()
	resp, err := client.Do(req)
	p.Duration = time.Since(start)
	if err != nil {
		p.Error = err
		return p
	}
	defer resp.Body.Close()

	p.Status = resp.StatusCode
	p.OK = resp.StatusCode < 500
	return p
}

func printReport(probes []probe) {
	fmt.Println("Registrar upstream probe")
	fmt.Println(strings.Repeat("-", 60))
	for _, p := range probes {
		label := "ok"
		detail := fmt.Sprintf("%d in %s", p.Status, p.Duration.Round(time.Millisecond))
		if p.Error != nil {
			label = "FAIL"
			detail = p.Error.Error()
		} else if !p.OK {
			label = "FAIL"
		}
		critical := ""
		if p.Target.Critical {
			critical = " [critical]"
		}
		fmt.Printf("%-4s %-6s %-40s %s%s\n", label, p.Target.Method, p.Target.Path, detail, critical)
	}
	fmt.Println(strings.Repeat("-", 60))
}
