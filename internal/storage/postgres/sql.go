package postgres

// listingCols and ownerCols are the column lists shared by every
// listing read that joins owner contact info.
const listingCols = `
  l.id, l.owner_id, l.title, l.description, l.address, l.city,
  l.rent, l.property_type, l.occupancy_preference, l.furnished,
  l.lat, l.lon, l.status, l.created_at, l.updated_at`

const ownerCols = `u.name, u.email, u.phone`

// listingColsBare is the unaliased variant for UPDATE ... RETURNING.
const listingColsBare = `
  id, owner_id, title, description, address, city,
  rent, property_type, occupancy_preference, furnished,
  lat, lon, status, created_at, updated_at`

const getVerifiedListingSQL = `
SELECT` + listingCols + `,
  ` + ownerCols + `
FROM listings l
JOIN users u ON u.id = l.owner_id
WHERE l.id = $1 AND l.status = 'verified'
`

const getListingOwnerSQL = `
SELECT owner_id FROM listings WHERE id = $1
`

const listPendingSQL = `
SELECT` + listingCols + `,
  ` + ownerCols + `
FROM listings l
JOIN users u ON u.id = l.owner_id
WHERE l.status = 'pending'
ORDER BY l.created_at DESC, l.id DESC
`

const insertListingSQL = `
INSERT INTO listings
  (id, owner_id, title, description, address, city, rent,
   property_type, occupancy_preference, furnished, lat, lon, status)
VALUES
  ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING created_at, updated_at
`

const deleteOwnedListingSQL = `
DELETE FROM listings WHERE id = $1 AND owner_id = $2
`

const setListingStatusSQL = `
UPDATE listings SET status = $1, updated_at = now()
WHERE id = $2
RETURNING` + listingColsBare + `
`

const listMissingCoordsSQL = `
SELECT` + listingCols + `
FROM listings l
WHERE l.lat IS NULL OR l.lon IS NULL
ORDER BY l.created_at
`

const setCoordsSQL = `
UPDATE listings SET lat = $1, lon = $2, updated_at = now() WHERE id = $3
`

const insertUserSQL = `
INSERT INTO users (id, name, email, phone, role) VALUES ($1, $2, $3, $4, $5)
`

const getUserSQL = `
SELECT id, name, email, phone, role, created_at FROM users WHERE id = $1
`

const listFavoritesSQL = `
SELECT f.id, f.user_id, f.listing_id, f.created_at,` + listingCols + `,
  ` + ownerCols + `
FROM favorites f
JOIN listings l ON l.id = f.listing_id
JOIN users u ON u.id = l.owner_id
WHERE f.user_id = $1
ORDER BY f.created_at DESC, f.id DESC
`

const listingVerifiedExistsSQL = `
SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1 AND status = 'verified')
`

const listingExistsSQL = `
SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)
`

const insertFavoriteSQL = `
INSERT INTO favorites (id, user_id, listing_id) VALUES ($1, $2, $3)
RETURNING created_at
`

const deleteFavoriteSQL = `
DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2
`

const listReviewsSQL = `
SELECT r.id, r.user_id, r.listing_id, r.rating, r.comment,
  r.created_at, r.updated_at, u.name
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.listing_id = $1
ORDER BY r.created_at DESC, r.id DESC
`

const insertReviewSQL = `
INSERT INTO reviews (id, user_id, listing_id, rating, comment)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at
`

const deleteOwnedReviewSQL = `
DELETE FROM reviews WHERE user_id = $1 AND listing_id = $2
`

const reviewAuthorSQL = `
SELECT name FROM users WHERE id = $1
`

// Analytics. All aggregates are computed fresh per request; there is no
// cached rollup to go stale.
const countListingsSQL = `SELECT COUNT(*) FROM listings`

const countPendingListingsSQL = `SELECT COUNT(*) FROM listings WHERE status = 'pending'`

const countUsersByRoleSQL = `SELECT COUNT(*) FROM users WHERE role = $1`

const topCitiesSQL = `
SELECT city, COUNT(*) AS n
FROM listings
WHERE status = 'verified'
GROUP BY city
ORDER BY n DESC, city ASC
LIMIT $1
`

const averageRentSQL = `
SELECT COALESCE(AVG(rent), 0) FROM listings WHERE status = 'verified'
`

const propertyTypeCountsSQL = `
SELECT property_type, COUNT(*)
FROM listings
WHERE status = 'verified'
GROUP BY property_type
`
