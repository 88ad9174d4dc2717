package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/spacewar/rollback"
)

const stickDeadzone = 0.2

type binding struct {
	keys []ebiten.Key
	bit  rollback.Input
}

// Player 0 uses WASD and space, player 1 the arrow keys and enter. Any
// further players stay idle. Gamepads map onto the player with the same
// index.
var keyBindings = [][]binding{
	{
		{[]ebiten.Key{ebiten.KeyW}, rollback.InputUp},
		{[]ebiten.Key{ebiten.KeyS}, rollback.InputDown},
		{[]ebiten.Key{ebiten.KeyA}, rollback.InputLeft},
		{[]ebiten.Key{ebiten.KeyD}, rollback.InputRight},
		{[]ebiten.Key{ebiten.KeySpace}, rollback.InputJump},
		{[]ebiten.Key{ebiten.KeyF}, rollback.InputShoot},
		{[]ebiten.Key{ebiten.KeyG}, rollback.InputThrow},
	},
	{
		{[]ebiten.Key{ebiten.KeyArrowUp}, rollback.InputUp},
		{[]ebiten.Key{ebiten.KeyArrowDown}, rollback.InputDown},
		{[]ebiten.Key{ebiten.KeyArrowLeft}, rollback.InputLeft},
		{[]ebiten.Key{ebiten.KeyArrowRight}, rollback.InputRight},
		{[]ebiten.Key{ebiten.KeyEnter, ebiten.KeyNumpadEnter}, rollback.InputJump},
		{[]ebiten.Key{ebiten.KeyShiftRight}, rollback.InputShoot},
		{[]ebiten.Key{ebiten.KeyControlRight}, rollback.InputThrow},
	},
}

func readInputs(players int) []rollback.PlayerInput {
	out := make([]rollback.PlayerInput, players)
	gamepads := ebiten.AppendGamepadIDs(nil)
	for i := range out {
		var in rollback.Input
		if i < len(keyBindings) {
			for _, b := range keyBindings[i] {
				for _, k := range b.keys {
					if ebiten.IsKeyPressed(k) {
						in.Set(b.bit)
					}
				}
			}
		}
		if i < len(gamepads) {
			in.Set(gamepadInput(gamepads[i]))
		}
		out[i] = rollback.PlayerInput{Input: in}
	}
	return out
}

func gamepadInput(id ebiten.GamepadID) rollback.Input {
	var in rollback.Input
	x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	if math.Abs(x) > stickDeadzone {
		if x < 0 {
			in.Set(rollback.InputLeft)
		} else {
			in.Set(rollback.InputRight)
		}
	}
	if math.Abs(y) > stickDeadzone {
		if y < 0 {
			in.Set(rollback.InputUp)
		} else {
			in.Set(rollback.InputDown)
		}
	}
	buttons := []struct {
		button ebiten.StandardGamepadButton
		bit    rollback.Input
	}{
		{ebiten.StandardGamepadButtonRightBottom, rollback.InputJump},
		{ebiten.StandardGamepadButtonRightLeft, rollback.InputShoot},
		{ebiten.StandardGamepadButtonFrontBottomRight, rollback.InputThrow},
	}
	for _, b := range buttons {
		if ebiten.IsStandardGamepadButtonPressed(id, b.button) {
			in.Set(b.bit)
		}
	}
	return in
}
