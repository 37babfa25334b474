package catalog

import "baggedflix/internal/media"

// meta mirrors the provider's loosely structured meta object. Only the fields
// the application consumes are decoded; unknown fields are ignored for
// forward compatibility.
type meta struct {
	ID          string   `json:"id"`
	IMDBID      string   `json:"imdb_id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Poster      string   `json:"poster"`
	Background  string   `json:"background"`
	Logo        string   `json:"logo"`
	Overview    string   `json:"overview"`
	Description string   `json:"description"`
	Year        string   `json:"year"`
	ReleaseInfo string   `json:"releaseInfo"`
	Runtime     string   `json:"runtime"`
	IMDBRating  string   `json:"imdbRating"`
	Genres      []string `json:"genres"`
	Genre       []string `json:"genre"`
	Videos      []video  `json:"videos"`
}

// video mirrors one episode record inside a series meta.
type video struct {
	Season      int    `json:"season"`
	Episode     int    `json:"episode"`
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Released    string `json:"released"`
	FirstAired  string `json:"firstAired"`
	Overview    string `json:"overview"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// toItem normalizes a provider meta into the application's Item record.
// Optional fields follow defined fallback rules instead of field probing:
// overview wins over description, genres over the legacy genre list.
func (m *meta) toItem(contentType media.ContentType) media.Item {
	desc := m.Overview
	if desc == "" {
		desc = m.Description
	}

	genres := m.Genres
	if len(genres) == 0 {
		genres = m.Genre
	}

	year := m.Year
	if year == "" {
		year = m.ReleaseInfo
	}

	item := media.Item{
		ID:          m.ID,
		Type:        contentType,
		Name:        m.Name,
		Poster:      m.Poster,
		Background:  m.Background,
		Logo:        m.Logo,
		Description: desc,
		Year:        year,
		Runtime:     m.Runtime,
		IMDBRating:  m.IMDBRating,
		IMDBID:      m.IMDBID,
		Genres:      genres,
	}
	if item.IMDBID == "" {
		item.IMDBID = m.ID
	}

	for _, v := range m.Videos {
		ep := v.Episode
		if ep == 0 {
			ep = v.Number
		}
		overview := v.Overview
		if overview == "" {
			overview = v.Description
		}
		aired := v.Released
		if aired == "" {
			aired = v.FirstAired
		}
		item.Videos = append(item.Videos, media.Episode{
			Season:    v.Season,
			Episode:   ep,
			Title:     v.Name,
			Aired:     aired,
			Overview:  overview,
			Thumbnail: v.Thumbnail,
		})
	}

	return item
}
