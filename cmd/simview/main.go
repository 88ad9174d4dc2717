package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spacewar/prefabs"
)

func main() {
	session := flag.String("session", "session.yaml", "session spec in prefabs/")
	scenario := flag.String("scenario", "", "scenario spec overriding the session's")
	dir := flag.String("dir", prefabs.Dir, "directory searched for on-disk prefabs")
	watch := flag.Bool("watch", false, "reload when a spec or script under prefabs/ changes")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	prefabs.Dir = *dir
	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(*session, *scenario)
	if err != nil {
		log.Fatal(err)
	}
	if *watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Fatalf("simview: watch %s: %v", prefabs.Dir, err)
		}
		defer w.Close()
		game.changes = w.Events
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth/2, baseHeight/2)
	ebiten.SetWindowTitle("spacewar simview")
	ebiten.SetTPS(game.sim.Config().FrameRate)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
