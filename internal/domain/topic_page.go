package domain

const DefaultPagePlaceType = "Place"

type NamedPlace struct {
	Dcid string `json:"dcid" validate:"required"`
	Name string `json:"name"`
}

type NamedTypedPlace struct {
	Dcid  string   `json:"dcid"`
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// ChildPlacesByType groups child places under their place type.
type ChildPlacesByType map[string][]NamedPlace

type TopicSummary struct {
	StatVarDcids []string `json:"statVarDcids"`
	Description  string   `json:"description,omitempty"`
}

type TopicsSummary struct {
	TopicPlaceMap  map[string]map[string][]string `json:"topicPlaceMap"`
	TopicNameMap   map[string]string              `json:"topicNameMap"`
	TopicSummaries map[string]TopicSummary        `json:"topicSummaries" validate:"dive"`
}

type SearchAutocomplete struct {
	URL          string            `json:"url"`
	Restrictions map[string]string `json:"restrictions"`
}

// TopicPageProps is what the topic page is mounted with.
type TopicPageProps struct {
	Place              NamedTypedPlace    `json:"place"`
	MorePlaces         []string           `json:"morePlaces"`
	Topic              string             `json:"topic"`
	PageConfig         map[string]any     `json:"pageConfig"`
	TopicsSummary      TopicsSummary      `json:"topicsSummary"`
	ShowChildPlaces    bool               `json:"showChildPlaces"`
	ChildPlaces        ChildPlacesByType  `json:"childPlaces"`
	DisplaySearchbar   bool               `json:"displaySearchbar"`
	SearchAutocomplete SearchAutocomplete `json:"searchAutocomplete"`
}
