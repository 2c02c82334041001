// Package routes provides typed models for routing engine responses, the
// primary payload the transcoding pipeline was built for. The models carry
// both JSON and MessagePack tags so a response can move between the two
// formats without loss.
package routes

import (
	jsonencoder "github.com/transcodekit/lz4msgpack/encoders/json"
	msgpackencoder "github.com/transcodekit/lz4msgpack/encoders/msgpack"
)

// RouteResponse is the root of a routing response.
type RouteResponse struct {
	Code      string     `json:"code" msgpack:"code"`
	Routes    []Route    `json:"routes" msgpack:"routes"`
	Waypoints []Waypoint `json:"waypoints" msgpack:"waypoints"`
}

// Route is one computed route from origin to destination.
type Route struct {
	Legs       []Leg   `json:"legs" msgpack:"legs"`
	WeightName string  `json:"weight_name" msgpack:"weight_name"`
	Weight     float64 `json:"weight" msgpack:"weight"`
	Duration   float64 `json:"duration" msgpack:"duration"`
	Distance   float64 `json:"distance" msgpack:"distance"`
}

// Leg is a segment of a route between two waypoints.
type Leg struct {
	Steps    []Step  `json:"steps" msgpack:"steps"`
	Summary  string  `json:"summary" msgpack:"summary"`
	Weight   float64 `json:"weight" msgpack:"weight"`
	Duration float64 `json:"duration" msgpack:"duration"`
	Distance float64 `json:"distance" msgpack:"distance"`
}

// Step is a single navigation instruction within a leg.
type Step struct {
	Geometry      string         `json:"geometry" msgpack:"geometry"`
	Maneuver      Maneuver       `json:"maneuver" msgpack:"maneuver"`
	Mode          string         `json:"mode" msgpack:"mode"`
	DrivingSide   *string        `json:"driving_side,omitempty" msgpack:"driving_side,omitempty"`
	Name          string         `json:"name" msgpack:"name"`
	Intersections []Intersection `json:"intersections" msgpack:"intersections"`
	Weight        float64        `json:"weight" msgpack:"weight"`
	Duration      float64        `json:"duration" msgpack:"duration"`
	Distance      float64        `json:"distance" msgpack:"distance"`
	Ref           *string        `json:"ref,omitempty" msgpack:"ref,omitempty"`
}

// Maneuver describes the action taken at the start of a step.
type Maneuver struct {
	BearingAfter  int        `json:"bearing_after" msgpack:"bearing_after"`
	BearingBefore int        `json:"bearing_before" msgpack:"bearing_before"`
	Location      [2]float64 `json:"location" msgpack:"location"`
	Modifier      string     `json:"modifier" msgpack:"modifier"`
	Type          string     `json:"type" msgpack:"type"`
}

// Intersection describes a road crossing passed during a step.
type Intersection struct {
	Out      *int       `json:"out,omitempty" msgpack:"out,omitempty"`
	Entry    []bool     `json:"entry" msgpack:"entry"`
	Bearings []int      `json:"bearings" msgpack:"bearings"`
	Location [2]float64 `json:"location" msgpack:"location"`
	In       *int       `json:"in,omitempty" msgpack:"in,omitempty"`
}

// Waypoint is a snapped input coordinate.
type Waypoint struct {
	Hint     string     `json:"hint" msgpack:"hint"`
	Distance float64    `json:"distance" msgpack:"distance"`
	Name     string     `json:"name" msgpack:"name"`
	Location [2]float64 `json:"location" msgpack:"location"`
}

var (
	jsonCodec    = jsonencoder.New()
	msgpackCodec = msgpackencoder.New()
)

// ParseJSON parses a JSON routing response.
func ParseJSON(data []byte) (*RouteResponse, error) {
	var response RouteResponse
	if err := jsonCodec.Decode(data, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// JSON serializes the response to JSON.
func (r *RouteResponse) JSON() ([]byte, error) {
	return jsonCodec.Encode(r)
}

// Marshal serializes the response to MessagePack.
func (r *RouteResponse) Marshal() ([]byte, error) {
	return msgpackCodec.Encode(r)
}

// Unmarshal parses a MessagePack routing response.
func Unmarshal(data []byte) (*RouteResponse, error) {
	var response RouteResponse
	if err := msgpackCodec.Decode(data, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// JSONToMsgpack converts a JSON routing response straight to MessagePack.
func JSONToMsgpack(data []byte) ([]byte, error) {
	response, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return response.Marshal()
}

// MsgpackToJSON converts a MessagePack routing response straight to JSON.
func MsgpackToJSON(data []byte) ([]byte, error) {
	response, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return response.JSON()
}
