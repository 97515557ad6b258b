package building

// defaultFloors is the kiosk's built-in floor plan.
var defaultFloors = []Floor{
	{
		Y:     0,
		Label: "Rez-de-chaussée",
		Rooms: []Room{
			{X: 50, Y: 50, Width: 80, Height: 100, Label: "Entrée Principale", ID: "entrance", Kind: KindEntrance, Floor: 0},
			{X: 150, Y: 50, Width: 80, Height: 100, Label: "Bureau 101", ID: "b101", Kind: KindOffice, Floor: 0},
			{X: 250, Y: 50, Width: 80, Height: 100, Label: "Salle Réunion 1", ID: "sr1", Kind: KindMeeting, Floor: 0},
			{X: 350, Y: 50, Width: 100, Height: 100, Label: "Ascenseur", ID: "elevator1", Kind: KindElevator, Floor: 0},
		},
	},
	{
		Y:     200,
		Label: "Étage 1",
		Rooms: []Room{
			{X: 150, Y: 250, Width: 80, Height: 100, Label: "Bureau 201", ID: "b201", Kind: KindOffice, Floor: 1},
			{X: 250, Y: 250, Width: 80, Height: 100, Label: "Salle Réunion 2", ID: "sr2", Kind: KindMeeting, Floor: 1},
			{X: 350, Y: 250, Width: 100, Height: 100, Label: "Ascenseur", ID: "elevator2", Kind: KindElevator, Floor: 1},
			{X: 470, Y: 250, Width: 90, Height: 100, Label: "Direction", ID: "direction", Kind: KindOffice, Floor: 1},
		},
	},
	{
		Y:     400,
		Label: "Étage 2",
		Rooms: []Room{
			{X: 150, Y: 450, Width: 80, Height: 100, Label: "Bureau 301", ID: "b301", Kind: KindOffice, Floor: 2},
			{X: 250, Y: 450, Width: 80, Height: 100, Label: "Salle 2", ID: "s2", Kind: KindMeeting, Floor: 2},
			{X: 350, Y: 450, Width: 100, Height: 100, Label: "Ascenseur", ID: "elevator3", Kind: KindElevator, Floor: 2},
		},
	},
}

// Default returns the built-in three-floor registry.
func Default() *Registry {
	reg, err := NewRegistry(defaultFloors)
	if err != nil {
		panic("building: default floor table is invalid: " + err.Error())
	}
	return reg
}
