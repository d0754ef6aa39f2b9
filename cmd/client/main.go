package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"gitlab.com/dirk.krummacker/contactbook/internal/model"
	"gitlab.com/dirk.krummacker/contactbook/internal/randomgen"
)

// baseURL is the address of the contacts service, set by the -addr flag.
var baseURL string

// Usage example on the command line:
// > go run main.go -addr=http://localhost:8080 -sizes=1000,5000
//
// The output lists the average latency per request type in microseconds.
func main() {
	flag.StringVar(&baseURL, "addr", "http://localhost:8080", "base URL of the contacts service")
	var sizes sizeList = []int{1000, 5000, 10000}
	flag.Var(&sizes, "sizes", "comma separated numbers of contacts per round")
	flag.Parse()

	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    SEARCH    DELETE ")
	fmt.Println("-------------------------------------------------------------")
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)

		// POST requests
		ids := make([]int64, 0, loops)
		var duration int64
		for i := 0; i < loops; i++ {
			id, d := sendPostRequest(randomgen.Contact())
			ids = append(ids, id)
			duration += d
		}
		fmt.Printf("%10d", duration/int64(loops*1000))

		// PUT requests
		callInLoop(ids, func(id int64) int64 {
			body, _ := json.Marshal(map[string]string{"phone": randomgen.PickPhone()})
			return sendIDRequest(id, http.MethodPut, bytes.NewReader(body))
		})

		// GET requests
		callInLoop(ids, func(id int64) int64 {
			return sendIDRequest(id, http.MethodGet, nil)
		})

		// SEARCH requests
		callInLoop(ids, func(int64) int64 {
			query := url.Values{"last_name": {randomgen.PickLastName()[:3]}}
			_, d := sendRequest(http.MethodGet, baseURL+"/contacts/search/?"+query.Encode(), nil)
			return d
		})

		// DELETE requests
		callInLoop(ids, func(id int64) int64 {
			return sendIDRequest(id, http.MethodDelete, nil)
		})
		fmt.Println()
	}
}

// callInLoop calls f for every id in random order and prints the average duration.
func callInLoop(ids []int64, f func(id int64) int64) {
	shuffled := append([]int64(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration int64
	for _, id := range shuffled {
		duration += f(id)
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

func sendPostRequest(contact model.Contact) (int64, int64) {
	body, err := json.Marshal(contact)
	if err != nil {
		panic(err)
	}
	resBody, duration := sendRequest(http.MethodPost, baseURL+"/contacts/", bytes.NewReader(body))
	var created model.Contact
	if err := json.Unmarshal(resBody, &created); err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return created.Id, duration
}

func sendIDRequest(id int64, method string, bodyReader io.Reader) int64 {
	_, duration := sendRequest(method, fmt.Sprintf("%s/contacts/%d", baseURL, id), bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	return resBody, time.Since(before).Nanoseconds()
}
