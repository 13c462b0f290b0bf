// Package drive implements the kinematic model of a two-wheeled
// differential-drive robot.
//
// A [Model] owns the robot geometry (wheel radius, wheel separation,
// height) and its planar pose. [Model.Step] advances the pose by one
// explicit Euler step given the left and right wheel angular velocities.
//
// The generators [Model.DriveSignal], [Model.TurnSignal] and
// [Model.ArcSignal] build open-loop wheel velocity profiles for straight
// drives, turns in place and arcs. [Concatenate] joins such segments into
// a single [Trajectory] with a synchronized time vector.
//
// Angles passed to the generators are in degrees; the heading held by the
// model is in radians and is never wrapped.
package drive
