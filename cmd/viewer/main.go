// Biogas adoption viewer - live grid visualization with a payment slider.
//
// Usage: go run ./cmd/viewer [-config config.yaml] [-seed N]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/agrosim/biogas/components"
	"github.com/agrosim/biogas/config"
	"github.com/agrosim/biogas/sim"
)

const (
	gridPx     = 640
	panelWidth = 280
	margin     = 10
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, or time-based)")
	stepsPerSec := flag.Int("steps-per-sec", 4, "Simulation steps per second")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	model, err := sim.New(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	cellW := gridPx / cfg.Grid.Width
	cellH := gridPx / cfg.Grid.Height

	rl.InitWindow(int32(gridPx+panelWidth+3*margin), int32(gridPx+2*margin), "Biogas Adoption")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	paused := false
	speed := *stepsPerSec
	payment := float32(cfg.BiogasPayment)
	var acc float32

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}
		if rl.IsKeyPressed(rl.KeyComma) && speed > 1 {
			speed--
		}
		if rl.IsKeyPressed(rl.KeyPeriod) && speed < 30 {
			speed++
		}

		if !paused {
			acc += rl.GetFrameTime() * float32(speed)
			for acc >= 1 {
				model.Step()
				acc--
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawGrid(model, cfg, cellW, cellH)

		panelX := int32(gridPx + 2*margin)
		y := int32(margin)

		rl.DrawText(fmt.Sprintf("Tick: %d", model.Tick()), panelX, y, 20, rl.DarkGray)
		y += 30
		if rec, ok := model.Latest(); ok {
			rl.DrawText(fmt.Sprintf("Adopters: %d / %d", rec.NAdopters, rec.NFarmers), panelX, y, 20, rl.DarkGray)
			y += 25
			rl.DrawText(fmt.Sprintf("Plants: %d small, %d medium, %d large", rec.NSmall, rec.NMedium, rec.NLarge), panelX, y, 10, rl.Gray)
			y += 20
			rl.DrawText(fmt.Sprintf("Total money: %.0f", rec.TotalMoney), panelX, y, 20, rl.DarkGray)
			y += 30
		}

		rl.DrawText("Biogas payment per step", panelX, y, 14, rl.Gray)
		y += 20
		newPayment := gui.SliderBar(
			rl.Rectangle{X: float32(panelX), Y: float32(y), Width: panelWidth - 60, Height: 20},
			"", fmt.Sprintf("%.0f", payment), payment, 0, 300,
		)
		if newPayment != payment {
			payment = newPayment
			model.SetPayment(float64(payment))
		}
		y += 35

		rl.DrawText(fmt.Sprintf("Speed: %d steps/s  [</>]", speed), panelX, y, 14, rl.Gray)
		y += 20
		rl.DrawText("Space: pause", panelX, y, 14, rl.Gray)
		y += 25
		if paused {
			rl.DrawText("PAUSED", panelX, y, 20, rl.Orange)
		}

		rl.EndDrawing()
	}
}

// drawGrid renders the cell lattice and every farmer, colored by adoption
// state and plant class.
func drawGrid(model *sim.Model, cfg *config.Config, cellW, cellH int) {
	for x := 0; x <= cfg.Grid.Width; x++ {
		px := int32(margin + x*cellW)
		rl.DrawLine(px, margin, px, int32(margin+cfg.Grid.Height*cellH), rl.LightGray)
	}
	for y := 0; y <= cfg.Grid.Height; y++ {
		py := int32(margin + y*cellH)
		rl.DrawLine(margin, py, int32(margin+cfg.Grid.Width*cellW), py, rl.LightGray)
	}

	radius := float32(cellW) * 0.3
	for _, f := range model.Farmers() {
		cx := float32(margin + f.X*cellW + cellW/2)
		cy := float32(margin + f.Y*cellH + cellH/2)

		if !f.HasPlant {
			rl.DrawCircle(int32(cx), int32(cy), radius, rl.Blue)
			continue
		}

		color := rl.Green
		switch f.PlantClass {
		case components.PlantMedium:
			color = rl.Orange
		case components.PlantLarge:
			color = rl.Red
		}
		side := float32(cellW) * 0.6
		rl.DrawRectangle(int32(cx-side/2), int32(cy-side/2), int32(side), int32(side), color)
	}
}
