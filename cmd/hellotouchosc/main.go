// Command hellotouchosc registers the controls of a small TouchOSC
// layout and prints their values once a second.
package main

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/jmacd/touchctl/oscin"
	"github.com/jmacd/touchctl/touchosc"
)

const framePeriod = time.Second / 60

func main() {
	recv, err := oscin.Listen(oscin.DefaultPort)
	if err != nil {
		log.Fatalf("error while opening osc port: %v", err)
	}
	defer recv.Close()

	go func() {
		if err := recv.Run(context.Background()); err != nil {
			log.Fatal("error running osc receiver: ", err)
		}
	}()

	c := touchosc.NewClient(recv)
	for _, err := range []error{
		c.AddSwitch("/show_points", true),
		c.AddIndex("/invert", 2, 0),
		c.AddArray("/grid", 2, 3, 24, 10),
		c.AddAngle("/rotate", 0, 2*math.Pi, 0),
		c.AddRadial("/offset", 0, 10, 0),
		c.AddScalar("/stroke_width", 1, 10, 2),
		c.AddPoint("/scale", 0.1, 3, 1),
		c.AddPolar("/scale_rotate",
			touchosc.Bounds{Min: 0.1, Max: 1},
			touchosc.Bounds{Min: 0, Max: 2 * math.Pi},
			touchosc.Point{X: 1, Y: math.Pi / 4}),
	} {
		if err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("listening on %v", recv.Addr())

	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()
	last := time.Now()
	for range ticker.C {
		c.Update()
		if time.Since(last) < time.Second {
			continue
		}
		last = time.Now()

		rows := math.Ceil(c.Array("/grid/1"))
		cols := math.Ceil(c.Array("/grid/2"))
		log.Printf("points=%v invert=%d grid=%vx%v rotate=%.2f offset=%.2f stroke=%.2f scale=%v radar=%v",
			c.Switch("/show_points"), c.Index("/invert"), rows, cols,
			c.Angle("/rotate"), c.Radial("/offset"), c.Scalar("/stroke_width"),
			c.Point("/scale"), c.Polar("/scale_rotate"))
	}
}
