package mysql

// Base package lookup; filters are appended conjunctively by the repo.
const searchPackagesSQL = `
SELECT
  id,
  location,
  trip_id,
  package_name,
  url,
  duration,
  tour_type,
  cities_included,
  price,
  created_at,
  itinerary_data,
  destination_type,
  hotel
FROM tour_packages
WHERE 1=1`

const upsertPackageSQL = `
INSERT INTO tour_packages
  (id, location, trip_id, package_name, url, duration, tour_type, cities_included, price, itinerary_data, destination_type, hotel)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  location         = VALUES(location),
  trip_id          = VALUES(trip_id),
  package_name     = VALUES(package_name),
  url              = VALUES(url),
  duration         = VALUES(duration),
  tour_type        = VALUES(tour_type),
  cities_included  = VALUES(cities_included),
  price            = VALUES(price),
  itinerary_data   = VALUES(itinerary_data),
  destination_type = VALUES(destination_type),
  hotel            = VALUES(hotel)
`

// Booking persistence is append-only; hotel_bookings is a serialized JSON map.
const createBookingsSQL = `
CREATE TABLE IF NOT EXISTS bookings (
  cust_id         BIGINT AUTO_INCREMENT PRIMARY KEY,
  reference       CHAR(36)     NOT NULL,
  customer_name   VARCHAR(255) NULL,
  customer_email  VARCHAR(255) NULL,
  customer_mobile VARCHAR(64)  NULL,
  package_name    VARCHAR(255) NOT NULL,
  package_id      VARCHAR(64)  NOT NULL,
  trip_start_date VARCHAR(32)  NOT NULL,
  origin_city     VARCHAR(255) NOT NULL,
  tot_adults      INT          NOT NULL,
  tot_children    INT          NOT NULL DEFAULT 0,
  tot_cost        TEXT         NOT NULL,
  hotel_bookings  JSON         NULL,
  created_at      TIMESTAMP    DEFAULT CURRENT_TIMESTAMP,
  UNIQUE KEY uq_bookings_reference (reference)
)`

const insertBookingSQL = `
INSERT INTO bookings
  (reference, customer_name, customer_email, customer_mobile, package_name, package_id,
   trip_start_date, origin_city, tot_adults, tot_children, tot_cost, hotel_bookings)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
