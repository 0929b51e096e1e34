package api

// FavouriteRequest is the body of POST /api/models/favourites.
type FavouriteRequest struct {
	ModelID string `json:"model_id"`
}
