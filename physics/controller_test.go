package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/spacewar/common"
	"github.com/stretchr/testify/require"
)

func normalAt(angle float64) Contact {
	n := mgl64.Vec2{math.Sin(angle), math.Cos(angle)}
	return Contact{Normal: common.ToPhysics(n)}
}

func TestClassifySlopeBoundary(t *testing.T) {
	maxSlope := 50 * math.Pi / 180
	deg := math.Pi / 180

	cases := []struct {
		name     string
		contact  Contact
		maxSlope float64
		want     ContactFlags
	}{
		{"flat_floor", normalAt(0), maxSlope, ContactFlags{Grounded: true}},
		{"one_degree_below", normalAt(maxSlope - deg), maxSlope, ContactFlags{Grounded: true}},
		{"exactly_at_limit", normalAt(maxSlope), maxSlope, ContactFlags{WallLeft: true}},
		{"exactly_at_limit_right", normalAt(-maxSlope), maxSlope, ContactFlags{WallRight: true}},
		{"one_degree_above", normalAt(maxSlope + deg), maxSlope, ContactFlags{WallLeft: true}},
		{"vertical_left_wall", normalAt(math.Pi / 2), maxSlope, ContactFlags{WallLeft: true}},
		{"vertical_right_wall", normalAt(-math.Pi / 2), maxSlope, ContactFlags{WallRight: true}},
		{"ceiling", normalAt(math.Pi), maxSlope, ContactFlags{Ceiling: true}},
		{"overhang", normalAt(math.Pi/2 + 10*deg), maxSlope, ContactFlags{Ceiling: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(Movement{}, []Contact{c.contact}, upVec, rightVec, c.maxSlope)
			require.Equal(t, c.want, got)
		})
	}
}

func TestClassifyInclusiveLimit(t *testing.T) {
	deg := math.Pi / 180
	cases := []struct {
		name    string
		degrees float64
	}{
		{"thirty", 30},
		{"forty_five", 45},
		{"fifty", 50},
		{"sixty", 60},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			limit := c.degrees * deg
			got := Classify(Movement{}, []Contact{normalAt(limit)}, upVec, rightVec, limit)
			require.Equal(t, ContactFlags{WallLeft: true}, got)

			got = Classify(Movement{}, []Contact{normalAt(-limit)}, upVec, rightVec, limit)
			require.Equal(t, ContactFlags{WallRight: true}, got)

			got = Classify(Movement{}, []Contact{normalAt(limit - deg/10)}, upVec, rightVec, limit)
			require.Equal(t, ContactFlags{Grounded: true}, got)
		})
	}

	for d := 1; d < 90; d++ {
		limit := float64(d) * deg
		got := Classify(Movement{}, []Contact{normalAt(limit)}, upVec, rightVec, limit)
		require.True(t, got.WallLeft, "limit %d degrees", d)
		require.False(t, got.Grounded, "limit %d degrees", d)
	}
}

func TestClassifyWallSideWithoutRightComponent(t *testing.T) {
	// with a zero limit a flat floor is a wall and has no component along right
	cases := []struct {
		name    string
		contact Contact
		want    ContactFlags
	}{
		{"flat", normalAt(0), ContactFlags{WallRight: true}},
		{"leaning_right", normalAt(math.Pi / 180), ContactFlags{WallLeft: true}},
		{"leaning_left", normalAt(-math.Pi / 180), ContactFlags{WallRight: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(Movement{}, []Contact{c.contact}, upVec, rightVec, 0)
			require.Equal(t, c.want, got)
		})
	}
}

func TestClassifyBothWalls(t *testing.T) {
	contacts := []Contact{normalAt(math.Pi / 2), normalAt(-math.Pi / 2)}
	got := Classify(Movement{}, contacts, upVec, rightVec, math.Pi/4)
	require.True(t, got.WallLeft)
	require.True(t, got.WallRight)
	require.True(t, got.OnWall())
	require.False(t, got.Grounded)
}

func TestClassifyGroundedPrecedence(t *testing.T) {
	cases := []struct {
		name     string
		grounded bool
		contacts []Contact
		want     bool
	}{
		{"ground_check_only", true, nil, true},
		{"contact_only", false, []Contact{normalAt(0)}, true},
		{"ground_check_with_wall", true, []Contact{normalAt(math.Pi / 2)}, true},
		{"neither", false, []Contact{normalAt(math.Pi / 2)}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(Movement{Grounded: c.grounded}, c.contacts, upVec, rightVec, math.Pi/4)
			require.Equal(t, c.want, got.Grounded)
		})
	}
}

func TestClassifyRotatedFrame(t *testing.T) {
	// gravity pointing along +x: up is -x and right is +y
	up := mgl64.Vec2{-1, 0}
	right := mgl64.Vec2{0, 1}
	floor := Contact{Normal: common.ToPhysics(mgl64.Vec2{-1, 0})}
	wall := Contact{Normal: common.ToPhysics(mgl64.Vec2{0, 1})}
	got := Classify(Movement{}, []Contact{floor, wall}, up, right, math.Pi/4)
	require.Equal(t, ContactFlags{Grounded: true, WallLeft: true}, got)
}
