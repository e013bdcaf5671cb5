// Package viz is the terminal front end of a lesson session, built on
// Bubble Tea.
//
//   - [Model]: live view of one session (scene, controls, lesson, tutor chat)
//   - [Picker]: scenario menu that starts a live view
//   - [Canvas]: Braille canvas the scene is drawn on
//
// # Key Bindings
//
//	Space      - Pause/Resume the world
//	R          - Reset the world, keeping changed control values
//	Tab        - Select the next control
//	Left/Right - Adjust the selected slider or dropdown
//	Enter      - Press the selected button or flip the toggle
//	1-9        - Predict
//	N/H/E      - Next stage, hint, explanation
//	C          - Chat with the tutor (Esc closes)
//	T          - Cycle themes
//
// Edited scenario files are reloaded when the model is given a change
// channel; an invalid file is reported and the running world is kept.
package viz
