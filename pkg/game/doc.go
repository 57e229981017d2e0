// Package game holds the live variable and switch containers a session
// mutates during play, plus Session, a small reference host with save slots.
//
// Containers notify post-write observers synchronously after every SetValue
// call. Observers are how other packages react to writes; the containers
// never know who is listening.
package game
