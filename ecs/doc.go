// Package ecs provides ECS adapters for backdrop's event stream.
//
// The primary adapter is [NewDonburiSink], which bridges backdrop events
// (section change, visibility change, shooting-star reset) into a [Donburi]
// world as typed events. Subscribe to [BackdropEventType] in your ECS
// systems to receive them, or call [NewPageStateTracker] to keep a
// [PageState] component in sync.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	game.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
