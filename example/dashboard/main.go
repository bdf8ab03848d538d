package main

import (
	"fmt"
	"log"

	"github.com/IAM-Haris-K/NFX"
)

func main() {
	cfg, err := nfx.LoadConfig("../../data/nfx.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dash, err := nfx.NewDashboard(cfg)
	if err != nil {
		log.Fatalf("dashboard: %v", err)
	}

	seq, err := dash.Generate()
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	frame, err := dash.Frame(seq, nfx.View{})
	if err != nil {
		log.Fatalf("frame: %v", err)
	}

	vp := dash.Viewport()
	step := (vp.Width - vp.Margin.Left - vp.Margin.Right) / 4
	for x := vp.Margin.Left; x <= vp.Width-vp.Margin.Right; x += step {
		tip, err := dash.Tooltip(frame, x)
		if err != nil {
			log.Fatalf("tooltip: %v", err)
		}
		fmt.Printf("x=%4.0f  %s | %s\n", x, tip.Title, tip.Body)
	}

	st := seq.Stats()
	fmt.Printf("samples=%d max=%.0f p95=%.0f\n", st.Count, st.Max, st.P95)
}
