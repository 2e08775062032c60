package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()

	if *recordDefaultPGO {
		// Profile the demo figure; pointer input would make the run
		// unrepeatable.
		*pointerFlag = false
		stop, err := startPGORecording("default.pgo")
		if err != nil {
			log.Fatalf("starting PGO capture: %v", err)
		}
		time.AfterFunc(pgoRecordDuration, func() {
			stop()
			log.Printf("PGO capture finished after %s", pgoRecordDuration)
		})
	}

	g, err := newGame()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	ebiten.SetWindowSize(w*windowScale, h*windowScale)
	ebiten.SetWindowTitle("Phosphor Vector Display")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("simulation aborted: %v", err)
	}
}
