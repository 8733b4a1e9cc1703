// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package api_test

import (
	"net/http"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

var _ = Describe("Signup and signin", func() {
	It("issues a token that opens only its own role's routes", func() {
		adminToken := signupAndSignin("admin", uniqueEmail("admin"))
		userToken := signupAndSignin("user", uniqueEmail("user"))

		Expect(call(http.MethodGet, "/admin/course/bulk", adminToken, nil).Status).To(Equal(http.StatusOK))
		Expect(call(http.MethodGet, "/user/purchases", userToken, nil).Status).To(Equal(http.StatusOK))

		crossed := call(http.MethodGet, "/admin/course/bulk", userToken, nil)
		Expect(crossed.Status).To(Equal(http.StatusForbidden))
		Expect(errorCode(crossed)).To(Equal("FORBIDDEN"))

		crossed = call(http.MethodGet, "/user/purchases", adminToken, nil)
		Expect(crossed.Status).To(Equal(http.StatusForbidden))
	})

	It("returns the token in the Authorization header as well", func() {
		email := uniqueEmail("user")
		signupAndSignin("user", email)

		resp := call(http.MethodPost, "/user/signin", "", map[string]any{"email": email, "password": strongPassword})
		Expect(resp.Status).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Authorization")).To(Equal("Bearer " + resp.Body["token"].(string)))
	})

	It("keeps admin and user accounts separate", func() {
		email := uniqueEmail("both")
		signupAndSignin("admin", email)

		resp := call(http.MethodPost, "/user/signin", "", map[string]any{"email": email, "password": strongPassword})
		Expect(resp.Status).To(Equal(http.StatusForbidden))

		signupAndSignin("user", email)
	})

	It("rejects a second signup with the same email", func() {
		email := uniqueEmail("dup")
		signupAndSignin("user", email)

		resp := call(http.MethodPost, "/user/signup", "", map[string]any{
			"email": email, "password": strongPassword, "firstName": "A", "lastName": "B",
		})
		Expect(resp.Status).To(Equal(http.StatusConflict))
	})

	It("lets exactly one of many concurrent duplicate signups succeed", func() {
		const attempts = 8
		email := uniqueEmail("race")

		statuses := make([]int, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				statuses[i] = call(http.MethodPost, "/admin/signup", "", map[string]any{
					"email": email, "password": strongPassword, "firstName": "Race", "lastName": "Condition",
				}).Status
			}()
		}
		wg.Wait()

		created, conflicts := 0, 0
		for _, s := range statuses {
			switch s {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			}
		}
		Expect(created).To(Equal(1))
		Expect(conflicts).To(Equal(attempts - 1))
	})

	It("does not reveal whether the email exists", func() {
		email := uniqueEmail("probe")
		signupAndSignin("admin", email)

		wrongPassword := call(http.MethodPost, "/admin/signin", "", map[string]any{"email": email, "password": "Wr0ng!Password"})
		unknownEmail := call(http.MethodPost, "/admin/signin", "", map[string]any{"email": uniqueEmail("ghost"), "password": strongPassword})

		Expect(wrongPassword.Status).To(Equal(http.StatusForbidden))
		Expect(unknownEmail.Status).To(Equal(http.StatusForbidden))
		Expect(wrongPassword.Body).To(Equal(unknownEmail.Body))
	})

	It("rejects requests without a token or with a tampered one", func() {
		Expect(call(http.MethodGet, "/user/purchases", "", nil).Status).To(Equal(http.StatusForbidden))

		token := signupAndSignin("user", uniqueEmail("tamper"))
		tampered := token[:len(token)-2] + "xx"
		Expect(call(http.MethodGet, "/user/purchases", tampered, nil).Status).To(Equal(http.StatusForbidden))
	})
})
