// Package vcs provides the Git operations for the start-py-project CLI.
//
// All Git operations are performed by calling the git binary through a
// process.Runner, rather than using a Git library like go-git. This:
//   - Uses the exact same Git behavior (hooks, config, signing) the user
//     sees in their terminal
//   - Lets tests replace git with a recording stub
//
// The Git struct initializes the repository of a freshly scaffolded
// project, points its primary branch at "main", and records the initial
// commit.
package vcs
