// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package api_test

import (
	"net/http"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

func courseIDs(r apiResponse, key string) []string {
	GinkgoHelper()
	items, ok := r.Body[key].([]any)
	Expect(ok).To(BeTrue(), "missing %q in %v", key, r.Body)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.(map[string]any)["id"].(string))
	}
	return ids
}

var _ = Describe("Courses", func() {
	var ownerToken, otherAdminToken, userToken string

	BeforeEach(func() {
		ownerToken = signupAndSignin("admin", uniqueEmail("owner"))
		otherAdminToken = signupAndSignin("admin", uniqueEmail("other"))
		userToken = signupAndSignin("user", uniqueEmail("buyer"))
	})

	It("lists only the calling admin's courses", func() {
		mine := createCourse(ownerToken, "Owned", 100)
		theirs := createCourse(otherAdminToken, "Not owned", 100)

		ids := courseIDs(call(http.MethodGet, "/admin/course/bulk", ownerToken, nil), "courses")
		Expect(ids).To(ContainElement(mine))
		Expect(ids).NotTo(ContainElement(theirs))
	})

	It("updates a course only for its creator", func() {
		id := createCourse(ownerToken, "Before", 100)
		update := map[string]any{"courseId": id, "title": "After", "price": 250}

		resp := call(http.MethodPut, "/admin/course", otherAdminToken, update)
		Expect(resp.Status).To(Equal(http.StatusNotFound))

		resp = call(http.MethodPut, "/admin/course", ownerToken, update)
		Expect(resp.Status).To(Equal(http.StatusOK))

		preview := call(http.MethodGet, "/course/preview", "", nil)
		Expect(preview.Status).To(Equal(http.StatusOK))
		for _, item := range preview.Body["courses"].([]any) {
			c := item.(map[string]any)
			if c["id"] == id {
				Expect(c["title"]).To(Equal("After"))
				Expect(c["price"]).To(BeNumerically("==", 250))
				Expect(c["description"]).To(BeEmpty())
			}
		}
	})

	It("rejects an update of a course that does not exist", func() {
		resp := call(http.MethodPut, "/admin/course", ownerToken, map[string]any{
			"courseId": ulid.Make().String(), "title": "Ghost", "price": 1,
		})
		Expect(resp.Status).To(Equal(http.StatusNotFound))
	})

	It("records a purchase once and lists it in the library", func() {
		id := createCourse(ownerToken, "Purchasable", 4999)

		resp := call(http.MethodPost, "/course/purchase", userToken, map[string]any{"courseId": id})
		Expect(resp.Status).To(Equal(http.StatusCreated))
		Expect(resp.Body["purchaseId"]).NotTo(BeEmpty())

		resp = call(http.MethodPost, "/course/purchase", userToken, map[string]any{"courseId": id})
		Expect(resp.Status).To(Equal(http.StatusConflict))

		library := call(http.MethodGet, "/user/purchases", userToken, nil)
		Expect(library.Status).To(Equal(http.StatusOK))
		Expect(courseIDs(library, "courses")).To(Equal([]string{id}))
		Expect(library.Body["purchases"]).To(HaveLen(1))
	})

	It("rejects a purchase of a course that does not exist", func() {
		resp := call(http.MethodPost, "/course/purchase", userToken, map[string]any{"courseId": ulid.Make().String()})
		Expect(resp.Status).To(Equal(http.StatusNotFound))
	})

	It("does not let an admin token purchase", func() {
		id := createCourse(ownerToken, "Admin cannot buy", 10)
		resp := call(http.MethodPost, "/course/purchase", ownerToken, map[string]any{"courseId": id})
		Expect(resp.Status).To(Equal(http.StatusForbidden))
	})

	It("returns an empty library for a user with no purchases", func() {
		library := call(http.MethodGet, "/user/purchases", userToken, nil)
		Expect(library.Status).To(Equal(http.StatusOK))
		Expect(library.Body["purchases"]).To(BeEmpty())
		Expect(library.Body["courses"]).To(BeEmpty())
	})

	It("serves the preview without a token", func() {
		id := createCourse(ownerToken, "Public", 0)
		Expect(courseIDs(call(http.MethodGet, "/course/preview", "", nil), "courses")).To(ContainElement(id))
	})
})
