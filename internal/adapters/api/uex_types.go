package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flag decodes the provider's 0/1 integers as well as JSON booleans
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	switch s {
	case "", "null", "0", "false":
		*f = false
	default:
		*f = true
	}
	return nil
}

// number decodes numeric fields that are sometimes sent as strings
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = number(v)
	return nil
}

// text decodes a field that is sent either as a string or a number, e.g. crew "1,4" or 2
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = text(s)
		return nil
	}
	*t = text(string(b))
	return nil
}

type uexStarSystem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	IsAvailable flag   `json:"is_available"`
}

type uexPlanet struct {
	ID           int    `json:"id"`
	StarSystemID int    `json:"id_star_system"`
	Name         string `json:"name"`
	Code         string `json:"code"`
}

type uexMoon struct {
	ID           int    `json:"id"`
	StarSystemID int    `json:"id_star_system"`
	PlanetID     int    `json:"id_planet"`
	Name         string `json:"name"`
	Code         string `json:"code"`
}

type uexCity struct {
	ID           int    `json:"id"`
	StarSystemID int    `json:"id_star_system"`
	PlanetID     int    `json:"id_planet"`
	MoonID       int    `json:"id_moon"`
	Name         string `json:"name"`
	Code         string `json:"code"`
}

type uexSpaceStation struct {
	ID           int    `json:"id"`
	StarSystemID int    `json:"id_star_system"`
	PlanetID     int    `json:"id_planet"`
	MoonID       int    `json:"id_moon"`
	CityID       int    `json:"id_city"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname"`
}

type uexOutpost struct {
	ID           int    `json:"id"`
	StarSystemID int    `json:"id_star_system"`
	PlanetID     int    `json:"id_planet"`
	MoonID       int    `json:"id_moon"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname"`
}

type uexTerminal struct {
	ID             int    `json:"id"`
	StarSystemID   int    `json:"id_star_system"`
	PlanetID       int    `json:"id_planet"`
	MoonID         int    `json:"id_moon"`
	CityID         int    `json:"id_city"`
	SpaceStationID int    `json:"id_space_station"`
	OutpostID      int    `json:"id_outpost"`
	Name           string `json:"name"`
	Nickname       string `json:"nickname"`
	Code           string `json:"code"`
	Type           string `json:"type"`
	IsAvailable    flag   `json:"is_available"`
}

type uexCommodity struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Kind          string `json:"kind"`
	PriceBuy      number `json:"price_buy"`
	PriceSell     number `json:"price_sell"`
	IsAvailable   flag   `json:"is_available"`
	IsBuyable     flag   `json:"is_buyable"`
	IsSellable    flag   `json:"is_sellable"`
	IsIllegal     flag   `json:"is_illegal"`
	IsMineral     flag   `json:"is_mineral"`
	IsHarvestable flag   `json:"is_harvestable"`
}

type uexCommodityPrice struct {
	CommodityID  int    `json:"id_commodity"`
	TerminalID   int    `json:"id_terminal"`
	PriceBuy     number `json:"price_buy"`
	PriceSell    number `json:"price_sell"`
	SCUBuy       number `json:"scu_buy"`
	SCUSell      number `json:"scu_sell"`
	DateModified int64  `json:"date_modified"`
}

type uexVehicle struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	NameFull    string `json:"name_full"`
	CompanyName string `json:"company_name"`
	SCU         number `json:"scu"`
	Crew        text   `json:"crew"`
}

type uexVehiclePrice struct {
	VehicleID int    `json:"id_vehicle"`
	Price     number `json:"price"`
}

type uexVehiclePurchase struct {
	VehicleID  int    `json:"id_vehicle"`
	TerminalID int    `json:"id_terminal"`
	PriceBuy   number `json:"price_buy"`
}

type uexVehicleRental struct {
	VehicleID  int    `json:"id_vehicle"`
	TerminalID int    `json:"id_terminal"`
	PriceRent  number `json:"price_rent"`
}
