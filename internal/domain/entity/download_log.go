package entity

import "time"

// LocationNotSpecified valor registrado cuando el usuario no indica ubicación.
const LocationNotSpecified = "Not specified"

// DownloadLog registro de solo-anexar por cada OC exportada.
type DownloadLog struct {
	ID           string
	POID         string
	Actor        string
	DownloadedAt time.Time
	Location     string
}
