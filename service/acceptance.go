package service

import (
	"net/http"
	"net/url"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// Acceptance walks the public API as a client would. It is reused by the api
// package tests against the full interceptor chain.
func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Register vehicle", func(a *biff.A) {
		myVehicle := JSON{
			"id":          "V-100",
			"make":        "Ford",
			"model":       "Transit",
			"year":        2020,
			"mileage":     42000,
			"status":      "active",
			"acquired_on": "2020-03-15",
		}
		resp := apiRequest("POST", "/vehicles").
			WithBodyJson(myVehicle).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), myVehicle)

		a.Alternative("Retrieve vehicle", func(a *biff.A) {
			resp := apiRequest("GET", "/vehicles/V-100").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), myVehicle)
		})

		a.Alternative("Retrieve missing vehicle", func(a *biff.A) {
			resp := apiRequest("GET", "/vehicles/V-404").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("List vehicles", func(a *biff.A) {
			resp := apiRequest("GET", "/vehicles").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{myVehicle})
		})

		a.Alternative("List vehicles with filter", func(a *biff.A) {
			resp := apiRequest("GET", "/vehicles?filter="+url.QueryEscape(`{"status":"retired"}`)).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{})
		})

		a.Alternative("Register duplicate", func(a *biff.A) {
			resp := apiRequest("POST", "/vehicles").
				WithBodyJson(myVehicle).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Patch vehicle", func(a *biff.A) {
			resp := apiRequest("POST", "/vehicles/V-100:patchVehicle").
				WithBodyJson(JSON{
					"mileage": 50000,
					"status":  "maintenance",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			body := resp.BodyJson().(map[string]interface{})
			biff.AssertEqualJson(body["mileage"], float64(50000))
			biff.AssertEqual(body["status"], "maintenance")
		})

		a.Alternative("Patch unknown column", func(a *biff.A) {
			resp := apiRequest("POST", "/vehicles/V-100:patchVehicle").
				WithBodyJson(JSON{
					"color": "red",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Remove vehicle", func(a *biff.A) {
			resp := apiRequest("POST", "/vehicles/V-100:removeVehicle").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"removed": "V-100"})

			a.Alternative("Retrieve removed vehicle", func(a *biff.A) {
				resp := apiRequest("GET", "/vehicles/V-100").Do()

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Export table", func(a *biff.A) {
			resp := apiRequest("GET", "/datasets/fleet/tables/vehicles").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			body := resp.BodyJson().(map[string]interface{})
			biff.AssertEqual(body["name"], "vehicles")
			biff.AssertEqual(len(body["rows"].([]interface{})), 1)
		})
	})

	a.Alternative("Register invalid vehicle", func(a *biff.A) {
		resp := apiRequest("POST", "/vehicles").
			WithBodyJson(JSON{
				"id":     "V-100",
				"make":   "Ford",
				"model":  "Transit",
				"year":   2020,
				"status": "scrapped",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Register with malformed body", func(a *biff.A) {
		resp := apiRequest("POST", "/vehicles").
			WithBodyString(`{"id"}`).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Set cost parameter", func(a *biff.A) {
		resp := apiRequest("POST", "/costs").
			WithBodyJson(JSON{
				"name":       "fuel_price",
				"value":      1.62,
				"unit":       "eur/l",
				"updated_on": "2026-01-31",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)

		a.Alternative("Update cost parameter", func(a *biff.A) {
			resp := apiRequest("POST", "/costs").
				WithBodyJson(JSON{
					"name":       "fuel_price",
					"value":      1.7,
					"unit":       "eur/l",
					"updated_on": "2026-02-28",
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			resp = apiRequest("GET", "/costs").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				{
					"name":       "fuel_price",
					"value":      1.7,
					"unit":       "eur/l",
					"updated_on": "2026-02-28",
				},
			})
		})
	})

	a.Alternative("List datasets", func(a *biff.A) {
		resp := apiRequest("GET", "/datasets").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []string{"audit", "costs", "fleet"})
	})

	a.Alternative("Import table", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/imports/tables/drivers:importTable").
			WithBodyJson(JSON{
				"name": "drivers",
				"schema": JSON{
					"columns": []JSON{
						{"name": "id", "kind": "text"},
						{"name": "licensed_on", "kind": "date"},
					},
				},
				"rows": []JSON{
					{"id": "D-1", "licensed_on": "2019-05-20"},
				},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"dataset": "imports",
			"table":   "drivers",
			"rows":    1,
		})

		a.Alternative("Export imported table", func(a *biff.A) {
			resp := apiRequest("GET", "/datasets/imports/tables/drivers").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			body := resp.BodyJson().(map[string]interface{})
			rows := body["rows"].([]interface{})
			biff.AssertEqual(len(rows), 1)
		})
	})

	a.Alternative("Import table with mismatched name", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/imports/tables/drivers:importTable").
			WithBodyJson(JSON{
				"name": "trucks",
				"schema": JSON{
					"columns": []JSON{{"name": "id", "kind": "text"}},
				},
				"rows": []JSON{},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Restore without snapshot", func(a *biff.A) {
		resp := apiRequest("POST", "/datasets/fleet:restoreDataset").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusConflict)
	})
}
