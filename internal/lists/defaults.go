package lists

// Template describes one of the lists every account starts with.
type Template struct {
	Name        string
	Description string
}

// DefaultLists are created for each new account and can be neither renamed
// nor deleted.
var DefaultLists = []Template{
	{Name: "Favoritas", Description: "Mis películas favoritas"},
	{Name: "Aún no he visto", Description: "Películas que quiero ver"},
	{Name: "Ya vistas", Description: "Películas que ya he visto"},
}
