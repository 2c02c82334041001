package routes

import (
	"testing"
)

const sampleResponse = `{
	"code": "Ok",
	"routes": [
		{
			"legs": [
				{
					"steps": [
						{
							"geometry": "mfp_I__vpA",
							"maneuver": {
								"bearing_after": 80,
								"bearing_before": 0,
								"location": [13.388798, 52.517033],
								"modifier": "right",
								"type": "depart"
							},
							"mode": "driving",
							"driving_side": "right",
							"name": "Friedrichstraße",
							"intersections": [
								{
									"out": 0,
									"entry": [true],
									"bearings": [80],
									"location": [13.388798, 52.517033]
								},
								{
									"out": 1,
									"in": 2,
									"entry": [false, true, true],
									"bearings": [80, 170, 260],
									"location": [13.39013, 52.517181]
								}
							],
							"weight": 25.6,
							"duration": 25.6,
							"distance": 252.4
						},
						{
							"geometry": "}fp_I_cxpA",
							"maneuver": {
								"bearing_after": 0,
								"bearing_before": 170,
								"location": [13.39239, 52.515479],
								"modifier": "straight",
								"type": "arrive"
							},
							"mode": "driving",
							"name": "Gendarmenmarkt",
							"intersections": [],
							"weight": 0,
							"duration": 0,
							"distance": 0
						}
					],
					"summary": "Friedrichstraße",
					"weight": 64.6,
					"duration": 64.6,
					"distance": 539.1
				}
			],
			"weight_name": "routability",
			"weight": 64.6,
			"duration": 64.6,
			"distance": 539.1
		}
	],
	"waypoints": [
		{
			"hint": "xwEAgP___38",
			"distance": 4.231666,
			"name": "Friedrichstraße",
			"location": [13.388798, 52.517033]
		},
		{
			"hint": "zgEAgP___38",
			"distance": 2.789393,
			"name": "Gendarmenmarkt",
			"location": [13.39239, 52.515479]
		}
	]
}`

func TestParseJSON(t *testing.T) {
	response, err := ParseJSON([]byte(sampleResponse))
	if err != nil {
		t.Fatalf("ParseJSON() failed: %v", err)
	}

	if response.Code != "Ok" {
		t.Errorf("Expected code Ok, got %q", response.Code)
	}
	if len(response.Routes) != 1 {
		t.Fatalf("Expected 1 route, got %d", len(response.Routes))
	}
	if len(response.Waypoints) != 2 {
		t.Fatalf("Expected 2 waypoints, got %d", len(response.Waypoints))
	}

	route := response.Routes[0]
	if route.WeightName != "routability" {
		t.Errorf("Expected weight name routability, got %q", route.WeightName)
	}
	if len(route.Legs) != 1 || len(route.Legs[0].Steps) != 2 {
		t.Fatal("Unexpected leg or step count")
	}

	depart := route.Legs[0].Steps[0]
	if depart.Maneuver.Type != "depart" || depart.Maneuver.BearingAfter != 80 {
		t.Errorf("Unexpected depart maneuver: %+v", depart.Maneuver)
	}
	if depart.DrivingSide == nil || *depart.DrivingSide != "right" {
		t.Error("Expected driving_side to be set on the depart step")
	}
	if len(depart.Intersections) != 2 {
		t.Fatalf("Expected 2 intersections, got %d", len(depart.Intersections))
	}
	if depart.Intersections[0].In != nil {
		t.Error("Expected the first intersection to have no inbound bearing")
	}
	if depart.Intersections[1].In == nil || *depart.Intersections[1].In != 2 {
		t.Error("Expected the second intersection inbound bearing index 2")
	}

	arrive := route.Legs[0].Steps[1]
	if arrive.DrivingSide != nil {
		t.Error("Expected driving_side to be absent on the arrive step")
	}
	if arrive.Maneuver.Location != [2]float64{13.39239, 52.515479} {
		t.Errorf("Unexpected arrive location: %v", arrive.Maneuver.Location)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	original, err := ParseJSON([]byte(sampleResponse))
	if err != nil {
		t.Fatalf("ParseJSON() failed: %v", err)
	}

	packed, err := original.Marshal()
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if len(packed) == 0 {
		t.Fatal("Expected non-empty msgpack data")
	}

	decoded, err := Unmarshal(packed)
	if err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	if decoded.Code != original.Code {
		t.Errorf("Expected code %q, got %q", original.Code, decoded.Code)
	}
	if len(decoded.Routes) != len(original.Routes) {
		t.Fatalf("Expected %d routes, got %d", len(original.Routes), len(decoded.Routes))
	}
	if decoded.Routes[0].Distance != original.Routes[0].Distance {
		t.Errorf("Expected distance %v, got %v", original.Routes[0].Distance, decoded.Routes[0].Distance)
	}
	step := decoded.Routes[0].Legs[0].Steps[0]
	if step.Name != "Friedrichstraße" {
		t.Errorf("Unexpected step name %q", step.Name)
	}
	if step.DrivingSide == nil || *step.DrivingSide != "right" {
		t.Error("Expected driving_side to survive the round trip")
	}
}

func TestJSONToMsgpackToJSON(t *testing.T) {
	packed, err := JSONToMsgpack([]byte(sampleResponse))
	if err != nil {
		t.Fatalf("JSONToMsgpack() failed: %v", err)
	}

	jsonOut, err := MsgpackToJSON(packed)
	if err != nil {
		t.Fatalf("MsgpackToJSON() failed: %v", err)
	}

	// Struct tags pin the member order, so a second pass through the
	// pipeline must be byte stable.
	response, err := ParseJSON(jsonOut)
	if err != nil {
		t.Fatalf("ParseJSON() of converted output failed: %v", err)
	}
	jsonAgain, err := response.JSON()
	if err != nil {
		t.Fatalf("JSON() failed: %v", err)
	}
	if string(jsonAgain) != string(jsonOut) {
		t.Error("Expected stable JSON output across pipeline passes")
	}
}

func TestParseJSONInvalid(t *testing.T) {
	if _, err := ParseJSON([]byte(`{not json`)); err == nil {
		t.Error("Expected error for malformed JSON, got nil")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	if _, err := Unmarshal([]byte{0xFF, 0xFF}); err == nil {
		t.Error("Expected error for malformed msgpack, got nil")
	}
}
